// Package pkg provides the libraries behind gittrophy, which turns git commit
// history into a 3D-printable trophy.
//
// # Data flow
//
//	git repositories ([history/gitrepo])
//	         ↓
//	    [history] per-day histogram, filtered, clipped and summed
//	         ↓
//	    [trophy] plinth and one brick per day    [text] extruded glyphs ([text/sdffont])
//	         ↓                                         ↓
//	    [mesh] one triangle soup
//	         ↓
//	    [export] binary PLY and ASCII STL
//
// [pipeline] orchestrates the stages and is what the CLI calls. [geometry]
// holds the shared dimensions, [cache] keeps per-repository histograms
// between runs and [observability] exposes start/complete hooks for each
// stage.
//
// # Quick start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Repos: []string{"."},
//	    Year:  "2024",
//	})
//	// res.Files == ["trophy.ply", "trophy.stl"]
package pkg
