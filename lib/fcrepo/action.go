package fcrepo

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// content types sent with repository mutations
const (
	ContentTypeSparqlUpdate = "application/sparql-update"
	ContentTypeSparqlQuery  = "application/sparql-query"
	ContentTypeCND          = "text/cnd"
	ContentTypeJSON         = "application/json"
	ContentTypeOctetStream  = "application/octet-stream"
)

// predicate used by RegisterNamespace to declare a prefix for a namespace URI
const preferredPrefixPredicate = "http://purl.org/vocab/vann/preferredNamespacePrefix"

// ActionKind identifies the user action an Action descriptor was built for.
type ActionKind string

// supported action kinds
const (
	KindCreateChild         ActionKind = "create-child"
	KindCreateDatastream    ActionKind = "create-datastream"
	KindImport              ActionKind = "import"
	KindDelete              ActionKind = "delete"
	KindRemoveVersion       ActionKind = "remove-version"
	KindRevertVersion       ActionKind = "revert-version"
	KindCreateTransaction   ActionKind = "create-transaction"
	KindRollbackTransaction ActionKind = "rollback-transaction"
	KindCommitTransaction   ActionKind = "commit-transaction"
	KindSparqlUpdate        ActionKind = "sparql-update"
	KindSparqlQuery         ActionKind = "sparql-query"
	KindRegisterNamespace   ActionKind = "register-namespace"
	KindCndUpdate           ActionKind = "cnd-update"
	KindUpdateBinary        ActionKind = "update-binary"
	KindUpdateAccessRoles   ActionKind = "update-access-roles"
)

// String returns the kind name.
func (k ActionKind) String() string { return string(k) }

// Policy selects how a successful outcome is turned into a navigation.
type Policy int

// navigation policies
const (
	PolicyReload             Policy = iota // always reload the current page
	PolicyLocationOrTarget                 // Location header, else the request URI
	PolicyDescribedBy                      // describedby link, else Location, else redirect or reload
	PolicyLocationOrRedirect               // Location header, else redirect or reload
	PolicyRedirect                         // redirect target, else reload
	PolicyParent                           // parent collection of the request URI
	PolicyRender                           // render response body in place
)

// Action describes a single repository mutation or query triggered by a user.
// It is built by one of the constructors below and used for exactly one request.
type Action struct {
	Kind        ActionKind
	Target      string    // absolute request URI
	Method      string    // HTTP method
	ContentType string    // empty means no Content-Type header
	Body        io.Reader // nil means empty body
	Redirect    string    // explicit navigation target used by fallback policies
	Success     []int     // accepted status codes, empty accepts any 2xx
	Policy      Policy
	ErrorLabel  string // label shown with a failed request
}

// Accepts reports whether the status code counts as success for this action.
func (a Action) Accepts(status int) bool {
	if len(a.Success) == 0 {
		return status >= 200 && status < 300
	}
	for _, s := range a.Success {
		if s == status {
			return true
		}
	}
	return false
}

// CreateChild creates a non-binary child of parent. Empty id lets the repository pick one (POST),
// otherwise the child is created at parent/id (PUT). Mixin is passed as a query parameter.
func CreateChild(parent, id, mixin string) Action {
	id = strings.TrimSpace(id)
	target := joinURI(parent, id)
	if mixin != "" {
		target += "?mixin=" + url.QueryEscape(mixin)
	}
	return Action{
		Kind:       KindCreateChild,
		Target:     target,
		Method:     createMethod(id),
		Policy:     PolicyLocationOrTarget,
		ErrorLabel: "Error creating resource",
	}
}

// CreateDatastream creates a binary child of parent with the given payload.
func CreateDatastream(parent, id, contentType string, payload io.Reader) Action {
	id = strings.TrimSpace(id)
	return Action{
		Kind:        KindCreateDatastream,
		Target:      joinURI(parent, id),
		Method:      createMethod(id),
		ContentType: binaryContentType(contentType),
		Body:        payload,
		Success:     []int{http.StatusCreated},
		Policy:      PolicyDescribedBy,
		ErrorLabel:  "Error creating datastream",
	}
}

// Import posts serialized content in the given format into resource.
func Import(resource, format, contentType string, payload io.Reader) Action {
	return Action{
		Kind:        KindImport,
		Target:      joinURI(resource, "fcr:import") + "?format=" + url.QueryEscape(format),
		Method:      http.MethodPost,
		ContentType: binaryContentType(contentType),
		Body:        payload,
		Success:     []int{http.StatusCreated},
		Policy:      PolicyReload,
		ErrorLabel:  "Error importing content",
	}
}

// Delete removes resource and navigates to its parent collection.
func Delete(resource string) Action {
	return Action{
		Kind:       KindDelete,
		Target:     resource,
		Method:     http.MethodDelete,
		Policy:     PolicyParent,
		ErrorLabel: "Error deleting resource",
	}
}

// RemoveVersion deletes a version and navigates to redirect.
func RemoveVersion(version, redirect string) Action {
	return Action{
		Kind:       KindRemoveVersion,
		Target:     version,
		Method:     http.MethodDelete,
		Redirect:   redirect,
		Success:    []int{http.StatusNoContent},
		Policy:     PolicyRedirect,
		ErrorLabel: "Error removing version",
	}
}

// RevertVersion reverts a resource to version with an empty PATCH and navigates to redirect.
func RevertVersion(version, redirect string) Action {
	return Action{
		Kind:       KindRevertVersion,
		Target:     version,
		Method:     http.MethodPatch,
		Redirect:   redirect,
		Policy:     PolicyRedirect,
		ErrorLabel: "Error reverting version",
	}
}

// CreateTransaction opens a transaction at uri and follows the Location of the new transaction.
func CreateTransaction(uri, redirect string) Action {
	return Action{
		Kind:       KindCreateTransaction,
		Target:     uri,
		Method:     http.MethodPost,
		Redirect:   redirect,
		Policy:     PolicyLocationOrRedirect,
		ErrorLabel: "Error creating transaction",
	}
}

// RollbackTransaction rolls back the transaction at uri and navigates to redirect.
func RollbackTransaction(uri, redirect string) Action {
	return Action{
		Kind:       KindRollbackTransaction,
		Target:     uri,
		Method:     http.MethodPost,
		Redirect:   redirect,
		Policy:     PolicyRedirect,
		ErrorLabel: "Error rolling back transaction",
	}
}

// CommitTransaction commits the transaction at uri and navigates to redirect.
func CommitTransaction(uri, redirect string) Action {
	return Action{
		Kind:       KindCommitTransaction,
		Target:     uri,
		Method:     http.MethodPost,
		Redirect:   redirect,
		Policy:     PolicyRedirect,
		ErrorLabel: "Error committing transaction",
	}
}

// SparqlUpdate patches resource with a SPARQL update query.
func SparqlUpdate(resource, query string) Action {
	return Action{
		Kind:        KindSparqlUpdate,
		Target:      resource,
		Method:      http.MethodPatch,
		ContentType: ContentTypeSparqlUpdate,
		Body:        strings.NewReader(query),
		Policy:      PolicyReload,
		ErrorLabel:  "Error updating resource",
	}
}

// SparqlQuery runs a SPARQL query against endpoint. The result is rendered, never navigated to.
func SparqlQuery(endpoint, query string) Action {
	return Action{
		Kind:        KindSparqlQuery,
		Target:      endpoint,
		Method:      http.MethodPost,
		ContentType: ContentTypeSparqlQuery,
		Body:        strings.NewReader(query),
		Policy:      PolicyRender,
		ErrorLabel:  "Error running query",
	}
}

// RegisterNamespace declares prefix for namespace uri via a generated SPARQL update posted to resource.
func RegisterNamespace(resource, prefix, namespace string) Action {
	return Action{
		Kind:        KindRegisterNamespace,
		Target:      resource,
		Method:      http.MethodPost,
		ContentType: ContentTypeSparqlUpdate,
		Body:        strings.NewReader(NamespaceQuery(prefix, namespace)),
		Policy:      PolicyReload,
		ErrorLabel:  "Error registering namespace",
	}
}

// NamespaceQuery returns the SPARQL update registering prefix for namespace.
func NamespaceQuery(prefix, namespace string) string {
	return fmt.Sprintf("INSERT { <%s> <%s> %q } WHERE {}", namespace, preferredPrefixPredicate, prefix)
}

// CndUpdate posts a node type definition (CND) to resource.
func CndUpdate(resource, cnd string) Action {
	return Action{
		Kind:        KindCndUpdate,
		Target:      resource,
		Method:      http.MethodPost,
		ContentType: ContentTypeCND,
		Body:        strings.NewReader(cnd),
		Policy:      PolicyReload,
		ErrorLabel:  "Error updating node types",
	}
}

// UpdateBinary replaces the content of a binary resource. Resource may point to the
// description (fcr:metadata), the binary itself is addressed.
func UpdateBinary(resource, contentType string, payload io.Reader) Action {
	return Action{
		Kind:        KindUpdateBinary,
		Target:      BinaryURI(resource),
		Method:      http.MethodPut,
		ContentType: binaryContentType(contentType),
		Body:        payload,
		Success:     []int{http.StatusCreated, http.StatusNoContent},
		Policy:      PolicyReload,
		ErrorLabel:  "Error updating datastream",
	}
}

// UpdateAccessRoles posts access roles JSON to resource/fcr:accessroles.
func UpdateAccessRoles(resource string, roles []byte) Action {
	return Action{
		Kind:        KindUpdateAccessRoles,
		Target:      joinURI(resource, "fcr:accessroles"),
		Method:      http.MethodPost,
		ContentType: ContentTypeJSON,
		Body:        bytes.NewReader(roles),
		Success:     []int{http.StatusCreated, http.StatusNoContent},
		Policy:      PolicyReload,
		ErrorLabel:  "Error updating access roles",
	}
}

// BinaryURI strips the fcr:metadata segment from a description URI.
func BinaryURI(uri string) string {
	if base, ok := strings.CutSuffix(strings.TrimSuffix(uri, "/"), "/fcr:metadata"); ok {
		return base
	}
	return uri
}

// ParentURI returns uri without its last path segment, i.e. the parent collection.
// Query and fragment are dropped. The root is its own parent.
func ParentURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" {
		return uri
	}
	u.RawQuery, u.Fragment = "", ""
	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[:i]
	}
	u.Path, u.RawPath = p, ""
	return u.String()
}

// transaction endpoint suffixes, relative to the transaction URI
const (
	txSuffix       = "/fcr:tx"
	commitSuffix   = txSuffix + "/fcr:commit"
	rollbackSuffix = txSuffix + "/fcr:rollback"
)

// CommitURI returns the commit endpoint of the transaction at tx.
// tx may already point at the transaction's fcr:tx, commit or rollback endpoint.
func CommitURI(tx string) string { return txBase(tx) + commitSuffix }

// RollbackURI returns the rollback endpoint of the transaction at tx.
func RollbackURI(tx string) string { return txBase(tx) + rollbackSuffix }

func txBase(tx string) string {
	tx = strings.TrimSuffix(tx, "/")
	for _, suffix := range []string{commitSuffix, rollbackSuffix, txSuffix} {
		if base, ok := strings.CutSuffix(tx, suffix); ok {
			return base
		}
	}
	return tx
}

func createMethod(id string) string {
	if id == "" {
		return http.MethodPost
	}
	return http.MethodPut
}

func binaryContentType(ct string) string {
	if ct == "" {
		return ContentTypeOctetStream
	}
	return ct
}

// joinURI appends segment to base with exactly one slash between them.
// Empty segment yields base with a trailing slash, as the repository expects for POST.
func joinURI(base, segment string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(segment, "/")
}
