// Package fcrepo provides a Go client for dispatching user actions against a Fedora-style
// (LDP) repository REST API and deciding the follow-up navigation.
//
// Every action is an explicit descriptor built by a constructor (CreateChild, Delete,
// SparqlUpdate, ...). Dispatch sends exactly one request and Decide, a pure function,
// turns the outcome into a Navigation: follow a URI, reload, or render the response.
//
// Basic usage:
//
//	client, err := fcrepo.New("http://localhost:8080/rest")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// create a child with a repository assigned id
//	nav, err := client.Dispatch(ctx, fcrepo.CreateChild("http://localhost:8080/rest/books", "", ""))
//	if err != nil {
//	    var reqErr *fcrepo.RequestError
//	    if errors.As(err, &reqErr) {
//	        log.Printf("%s: %s", reqErr.Label, reqErr.Body)
//	    }
//	    return err
//	}
//	if nav.Kind == fcrepo.NavFollow {
//	    log.Printf("created %s", nav.Target)
//	}
//
//	// upload a binary, navigation follows its describedby (metadata) resource
//	f, _ := os.Open("cover.png")
//	nav, err = client.Dispatch(ctx, fcrepo.CreateDatastream(parent, "cover", "image/png", f))
//
// With authentication:
//
//	client, err := fcrepo.New("http://localhost:8080/rest",
//	    fcrepo.WithBasicAuth("fedoraAdmin", "secret"),
//	    fcrepo.WithTimeout(10*time.Second),
//	)
package fcrepo
