// Package actionform builds repository action descriptors from submitted forms.
// The console and the JSON API accept the same fields, so both parse them here.
package actionform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/umputun/fcon/lib/fcrepo"
)

// form fields
const (
	FieldResource  = "resource"  // repository path of the page the action was triggered on
	FieldID        = "id"        // child id, empty lets the repository pick one
	FieldMixin     = "mixin"     // mixin type of a new child
	FieldPayload   = "payload"   // uploaded file
	FieldFormat    = "format"    // import serialization format
	FieldQuery     = "query"     // SPARQL query or update
	FieldPrefix    = "prefix"    // namespace prefix
	FieldNamespace = "namespace" // namespace URI
	FieldCND       = "cnd"       // node type definitions
	FieldRoles     = "roles"     // access roles JSON
	FieldTarget    = "target"    // version path, transaction path or query endpoint
	FieldRedirect  = "redirect"  // path to navigate to after the action
)

// defaultTxEndpoint is where transactions are opened when no target is submitted
const defaultTxEndpoint = "fcr:tx"

const maxMemory = 32 << 20 // multipart parts above this size are spooled to disk

// ErrUnknownAction is returned for an action name with no constructor.
var ErrUnknownAction = errors.New("unknown action")

// FieldError reports a missing or invalid form field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("field %q: %s", e.Field, e.Reason) }

// Repository resolves form paths to repository URIs and back.
type Repository interface {
	URL(path string) (string, error)
	Path(uri string) (string, bool)
}

// Request is a parsed action with the repository path it touches.
type Request struct {
	Action    fcrepo.Action
	Path      string // repository path of the action target, used for access checks
	NeedWrite bool   // false only for read-only queries
}

// Parse reads the form of r and builds the action named by kind.
func Parse(r *http.Request, kind string, repo Repository) (Request, error) {
	if err := parseForm(r); err != nil {
		return Request{}, fmt.Errorf("invalid form: %w", err)
	}

	resource, err := resolve(repo, FieldResource, r.FormValue(FieldResource))
	if err != nil {
		return Request{}, err
	}
	redirect, err := resolveOptional(repo, FieldRedirect, r.FormValue(FieldRedirect))
	if err != nil {
		return Request{}, err
	}

	var a fcrepo.Action
	switch fcrepo.ActionKind(kind) {
	case fcrepo.KindCreateChild:
		a = fcrepo.CreateChild(resource, r.FormValue(FieldID), strings.TrimSpace(r.FormValue(FieldMixin)))
	case fcrepo.KindCreateDatastream:
		body, ct, perr := payload(r)
		if perr != nil {
			return Request{}, perr
		}
		a = fcrepo.CreateDatastream(resource, r.FormValue(FieldID), ct, body)
	case fcrepo.KindImport:
		format, ferr := required(r, FieldFormat)
		if ferr != nil {
			return Request{}, ferr
		}
		body, ct, perr := payload(r)
		if perr != nil {
			return Request{}, perr
		}
		a = fcrepo.Import(resource, format, ct, body)
	case fcrepo.KindDelete:
		a = fcrepo.Delete(resource)
	case fcrepo.KindRemoveVersion, fcrepo.KindRevertVersion, fcrepo.KindRollbackTransaction, fcrepo.KindCommitTransaction:
		value, verr := required(r, FieldTarget)
		if verr != nil {
			return Request{}, verr
		}
		target, terr := resolve(repo, FieldTarget, value)
		if terr != nil {
			return Request{}, terr
		}
		if p, _ := repo.Path(target); p == "" {
			return Request{}, &FieldError{Field: FieldTarget, Reason: "repository root is not a version or transaction"}
		}
		a = targeted(fcrepo.ActionKind(kind), target, redirect)
	case fcrepo.KindCreateTransaction:
		target := r.FormValue(FieldTarget)
		if strings.TrimSpace(target) == "" {
			target = defaultTxEndpoint
		}
		txURI, terr := resolve(repo, FieldTarget, target)
		if terr != nil {
			return Request{}, terr
		}
		a = fcrepo.CreateTransaction(txURI, redirect)
	case fcrepo.KindSparqlUpdate:
		query, qerr := required(r, FieldQuery)
		if qerr != nil {
			return Request{}, qerr
		}
		a = fcrepo.SparqlUpdate(resource, query)
	case fcrepo.KindSparqlQuery:
		query, qerr := required(r, FieldQuery)
		if qerr != nil {
			return Request{}, qerr
		}
		endpoint, terr := resolveOptional(repo, FieldTarget, r.FormValue(FieldTarget))
		if terr != nil {
			return Request{}, terr
		}
		if endpoint == "" {
			endpoint = resource
		}
		a = fcrepo.SparqlQuery(endpoint, query)
	case fcrepo.KindRegisterNamespace:
		prefix, perr := required(r, FieldPrefix)
		if perr != nil {
			return Request{}, perr
		}
		ns, nerr := required(r, FieldNamespace)
		if nerr != nil {
			return Request{}, nerr
		}
		a = fcrepo.RegisterNamespace(resource, prefix, ns)
	case fcrepo.KindCndUpdate:
		cnd, cerr := required(r, FieldCND)
		if cerr != nil {
			return Request{}, cerr
		}
		a = fcrepo.CndUpdate(resource, cnd)
	case fcrepo.KindUpdateBinary:
		body, ct, perr := payload(r)
		if perr != nil {
			return Request{}, perr
		}
		a = fcrepo.UpdateBinary(resource, ct, body)
	case fcrepo.KindUpdateAccessRoles:
		roles, rerr := required(r, FieldRoles)
		if rerr != nil {
			return Request{}, rerr
		}
		a = fcrepo.UpdateAccessRoles(resource, []byte(roles))
	default:
		return Request{}, fmt.Errorf("%q: %w", kind, ErrUnknownAction)
	}

	path, _ := repo.Path(a.Target)
	return Request{Action: a, Path: path, NeedWrite: a.Kind != fcrepo.KindSparqlQuery}, nil
}

func targeted(kind fcrepo.ActionKind, target, redirect string) fcrepo.Action {
	switch kind {
	case fcrepo.KindRemoveVersion:
		return fcrepo.RemoveVersion(target, redirect)
	case fcrepo.KindRevertVersion:
		return fcrepo.RevertVersion(target, redirect)
	case fcrepo.KindRollbackTransaction:
		return fcrepo.RollbackTransaction(fcrepo.RollbackURI(target), redirect)
	default:
		return fcrepo.CommitTransaction(fcrepo.CommitURI(target), redirect)
	}
}

// parseForm handles both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

// resolve converts a submitted path or URI to an absolute repository URI.
// Empty path is the repository root.
func resolve(repo Repository, field, value string) (string, error) {
	uri, err := repo.URL(strings.TrimSpace(value))
	if err != nil {
		return "", &FieldError{Field: field, Reason: err.Error()}
	}
	return uri, nil
}

// resolveOptional is resolve for fields where empty means "not set".
func resolveOptional(repo Repository, field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return resolve(repo, field, value)
}

func required(r *http.Request, field string) (string, error) {
	v := r.FormValue(field)
	if strings.TrimSpace(v) == "" {
		return "", &FieldError{Field: field, Reason: "required"}
	}
	return v, nil
}

// payload reads the uploaded file and its declared content type.
// The request body is already size limited, so the file is read into memory.
func payload(r *http.Request) (io.Reader, string, error) {
	f, hdr, err := r.FormFile(FieldPayload)
	if err != nil {
		return nil, "", &FieldError{Field: FieldPayload, Reason: "file is required"}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", &FieldError{Field: FieldPayload, Reason: err.Error()}
	}
	return bytes.NewReader(data), hdr.Header.Get("Content-Type"), nil
}
