package fcrepo

import (
	"net/http"
	"net/url"
)

// NavKind is the kind of follow-up navigation decided for a completed action.
type NavKind string

// navigation kinds
const (
	NavFollow NavKind = "follow" // navigate to Navigation.Target
	NavReload NavKind = "reload" // reload the current page
	NavRender NavKind = "render" // show Navigation.Content in place
)

// Navigation is the client-side step decided from an action outcome.
type Navigation struct {
	Kind        NavKind
	Target      string // set for NavFollow
	Content     []byte // set for NavRender
	ContentType string // content type of Content
	Truncated   bool   // Content was cut at the response size limit
}

// Outcome is the response of a dispatched action, consumed once to decide navigation.
type Outcome struct {
	StatusCode  int
	Status      string // status text, e.g. "409 Conflict"
	Location    string
	Links       []string // raw Link header values
	ContentType string
	Body        []byte
	Truncated   bool // Body was cut at the response size limit
}

// Decide turns an action outcome into a navigation. It performs no I/O.
// A status outside the action's success set returns *RequestError and never a navigation.
// Relative follow targets are resolved against the action target.
func Decide(a Action, o Outcome) (Navigation, error) {
	if !a.Accepts(o.StatusCode) {
		return Navigation{}, newStatusError(a.ErrorLabel, o)
	}

	nav := decide(a, o)
	if nav.Kind == NavFollow {
		nav.Target = resolveRef(a.Target, nav.Target)
	}
	return nav, nil
}

func decide(a Action, o Outcome) Navigation {
	switch a.Policy {
	case PolicyLocationOrTarget:
		if o.Location != "" {
			return follow(o.Location)
		}
		return follow(a.Target)
	case PolicyDescribedBy:
		if uri, ok := DescribedBy(ParseLinks(o.Links)); ok {
			return follow(uri)
		}
		if o.Location != "" {
			return follow(o.Location)
		}
		return redirectOrReload(a.Redirect)
	case PolicyLocationOrRedirect:
		if o.Location != "" {
			return follow(o.Location)
		}
		return redirectOrReload(a.Redirect)
	case PolicyRedirect:
		return redirectOrReload(a.Redirect)
	case PolicyParent:
		return follow(ParentURI(a.Target))
	case PolicyRender:
		return Navigation{Kind: NavRender, Content: o.Body, ContentType: o.ContentType, Truncated: o.Truncated}
	default:
		return Navigation{Kind: NavReload}
	}
}

func follow(target string) Navigation {
	return Navigation{Kind: NavFollow, Target: target}
}

func redirectOrReload(redirect string) Navigation {
	if redirect != "" {
		return follow(redirect)
	}
	return Navigation{Kind: NavReload}
}

func newStatusError(label string, o Outcome) *RequestError {
	status := o.Status
	if status == "" {
		status = http.StatusText(o.StatusCode)
	}
	return &RequestError{Label: label, StatusCode: o.StatusCode, Status: status, Body: o.Body}
}

// resolveRef resolves a possibly relative header reference against base.
func resolveRef(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
