// Package bp2html renders API Blueprint documents to HTML.
//
// # Quick Start
//
// Create a renderer and render a document held in memory:
//
//	r, err := bp2html.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Render(ctx, "# My API\n\n## GET /items\n+ Response 200\n", bp2html.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("api.html", res.HTML, 0o644)
//
// # Rendering Pipeline
//
// Every render runs the same stages:
//
//  1. Include expansion: each <!-- include(file) --> marker is replaced by
//     the file's content, recursively, with the marker's indentation
//     repeated on every included line
//  2. Input normalization: \r\n and \r become \n and tabs become four
//     spaces (skipped with Options.SkipFilter)
//  3. Parsing into a document tree and warnings
//  4. Render context assembly: the tree, the display flags, helper
//     functions and the caller's Locals
//  5. Template resolution and html/template execution
//
// RenderSync runs these stages on the calling goroutine. RenderAsync runs
// the same code on a new goroutine and delivers an Outcome on a channel;
// Render waits for it under a context. Compile stops after stage 1.
//
// # Warnings
//
// Result.Warnings.Input holds the exact text handed to the parser. Warning
// locations are byte offsets into it:
//
//	for _, w := range res.Warnings.Items {
//	    fmt.Println(res.Warnings.Describe(w))
//	}
//
// # Templates
//
// Options.Template is either the path of a template file or the name of a
// template of the renderer's store. The store holds the built-in templates
// unless WithTemplateDir or WithTemplateFS is given. Files whose name starts
// with "_" are partials: they are parsed with every template and cannot be
// selected by name. Templates lists the selectable names.
//
// # Files and Streams
//
// RenderFile and CompileFile read and write files, with "-" standing for
// standard input or output. Output files are replaced atomically once the
// whole pipeline has succeeded. An output ending in ".pdf" is printed with
// headless Chrome (go-rod); set ROD_BROWSER_BIN to use an installed browser.
package bp2html
