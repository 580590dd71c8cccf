// Package model defines the core data structures used throughout
// course-mirror.
//
// # Source
//
// Source describes one course site: where its page lives, which part of the
// page holds the material links, where the files go and whether the server
// wants a login:
//
//	src := model.Source{
//	    Name:        "Analysis II",
//	    BaseURL:     "https://metaphor.ethz.ch/x/2018/hs/401-0213-16L/",
//	    LeftMarker:  "<h1>Übungsserien</h1>",
//	    RightMarker: "<h1>Übungsstunden</h1>",
//	    BaseDir:     "analysis-2",
//	    PathRule:    model.NthSlash(1),
//	}
//
// # Path Rules
//
// A PathRule shortens a raw href into a path relative to Source.BaseDir:
//
//	model.NthSlash(2).Apply("/a/b/c/file.pdf")                  // "c/file.pdf"
//	model.QueryParam("media").Apply("doku.php?id=x&media=a.pdf") // "a.pdf"
//
// Source.Resolve combines the rule with the base directory and the base URL
// into a ResolvedLink.
package model
