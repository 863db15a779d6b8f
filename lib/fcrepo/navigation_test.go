package fcrepo

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "http://localhost:8080/rest"

func TestDecide_Datastream(t *testing.T) {
	a := CreateDatastream(base+"/books", "cover", "image/png", strings.NewReader("png"))

	tests := []struct {
		name    string
		outcome Outcome
		want    Navigation
	}{
		{
			name: "describedby wins over location",
			outcome: Outcome{StatusCode: http.StatusCreated, Location: base + "/books/cover",
				Links: []string{`<` + base + `/books/cover/fcr:metadata>; rel="describedby"`}},
			want: Navigation{Kind: NavFollow, Target: base + "/books/cover/fcr:metadata"},
		},
		{
			name: "describedby among other links",
			outcome: Outcome{StatusCode: http.StatusCreated, Location: base + "/books/cover",
				Links: []string{`<http://www.w3.org/ns/ldp#NonRDFSource>;rel="type", <` + base + `/books/cover/fcr:metadata>;rel="describedby"`}},
			want: Navigation{Kind: NavFollow, Target: base + "/books/cover/fcr:metadata"},
		},
		{
			name:    "location without describedby",
			outcome: Outcome{StatusCode: http.StatusCreated, Location: base + "/books/cover"},
			want:    Navigation{Kind: NavFollow, Target: base + "/books/cover"},
		},
		{
			name: "non matching link ignored",
			outcome: Outcome{StatusCode: http.StatusCreated, Location: base + "/books/cover",
				Links: []string{`<http://www.w3.org/ns/ldp#Resource>; rel="type"`}},
			want: Navigation{Kind: NavFollow, Target: base + "/books/cover"},
		},
		{
			name:    "neither falls back to reload",
			outcome: Outcome{StatusCode: http.StatusCreated},
			want:    Navigation{Kind: NavReload},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			nav, err := Decide(a, tc.outcome)
			require.NoError(t, err)
			assert.Equal(t, tc.want, nav)
		})
	}

	t.Run("neither with redirect target", func(t *testing.T) {
		withRedirect := a
		withRedirect.Redirect = base + "/books"
		nav, err := Decide(withRedirect, Outcome{StatusCode: http.StatusCreated})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/books"}, nav)
	})

	t.Run("200 is not success for datastream", func(t *testing.T) {
		_, err := Decide(a, Outcome{StatusCode: http.StatusOK, Location: base + "/books/cover"})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "Error creating datastream", reqErr.Label)
		assert.Equal(t, http.StatusOK, reqErr.StatusCode)
	})
}

func TestDecide_CreateChild(t *testing.T) {
	t.Run("follows location", func(t *testing.T) {
		nav, err := Decide(CreateChild(base+"/books", "", ""), Outcome{StatusCode: http.StatusCreated, Location: base + "/books/ab/cd"})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/books/ab/cd"}, nav)
	})

	t.Run("falls back to request uri", func(t *testing.T) {
		nav, err := Decide(CreateChild(base+"/books", "moby", "fedora:object"), Outcome{StatusCode: http.StatusOK})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/books/moby?mixin=fedora%3Aobject"}, nav)
	})
}

func TestDecide_Delete(t *testing.T) {
	nav, err := Decide(Delete(base+"/a/b/c"), Outcome{StatusCode: http.StatusNoContent})
	require.NoError(t, err)
	assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/a/b"}, nav)
}

func TestDecide_Transactions(t *testing.T) {
	t.Run("create follows location", func(t *testing.T) {
		nav, err := Decide(CreateTransaction(base+"/fcr:tx", base), Outcome{StatusCode: http.StatusCreated, Location: base + "/tx:123"})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/tx:123"}, nav)
	})

	t.Run("create without location uses redirect", func(t *testing.T) {
		nav, err := Decide(CreateTransaction(base+"/fcr:tx", base), Outcome{StatusCode: http.StatusCreated})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base}, nav)
	})

	t.Run("commit ignores location", func(t *testing.T) {
		nav, err := Decide(CommitTransaction(base+"/tx:123/fcr:tx/fcr:commit", base),
			Outcome{StatusCode: http.StatusNoContent, Location: base + "/elsewhere"})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base}, nav)
	})

	t.Run("rollback without redirect reloads", func(t *testing.T) {
		nav, err := Decide(RollbackTransaction(base+"/tx:123/fcr:tx/fcr:rollback", ""), Outcome{StatusCode: http.StatusNoContent})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavReload}, nav)
	})
}

func TestDecide_Versions(t *testing.T) {
	t.Run("remove requires 204", func(t *testing.T) {
		a := RemoveVersion(base+"/a/fcr:versions/v1", base+"/a/fcr:versions")
		nav, err := Decide(a, Outcome{StatusCode: http.StatusNoContent})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/a/fcr:versions"}, nav)

		_, err = Decide(a, Outcome{StatusCode: http.StatusOK})
		require.Error(t, err)
	})

	t.Run("revert navigates to redirect", func(t *testing.T) {
		nav, err := Decide(RevertVersion(base+"/a/fcr:versions/v1", base+"/a"), Outcome{StatusCode: http.StatusNoContent})
		require.NoError(t, err)
		assert.Equal(t, Navigation{Kind: NavFollow, Target: base + "/a"}, nav)
	})
}

func TestDecide_Reloads(t *testing.T) {
	actions := []Action{
		Import(base+"/a", "jcr/xml", "", strings.NewReader("<xml/>")),
		SparqlUpdate(base+"/a", "INSERT DATA {}"),
		RegisterNamespace(base+"/a", "ex", "http://example.com/ns#"),
		CndUpdate(base+"/a", "<ns = 'http://example.com/ns'>"),
		UpdateBinary(base+"/a/ds/fcr:metadata", "text/plain", strings.NewReader("x")),
		UpdateAccessRoles(base+"/a", []byte(`{"admin":["rw"]}`)),
	}
	for _, a := range actions {
		t.Run(a.Kind.String(), func(t *testing.T) {
			nav, err := Decide(a, Outcome{StatusCode: http.StatusCreated, Location: base + "/ignored",
				Links: []string{`<` + base + `/desc>; rel="describedby"`}})
			require.NoError(t, err)
			assert.Equal(t, Navigation{Kind: NavReload}, nav)
		})
	}
}

func TestDecide_SparqlQuery(t *testing.T) {
	a := SparqlQuery(base+"/fcr:sparql", "SELECT * WHERE { ?s ?p ?o }")

	t.Run("renders body, never navigates", func(t *testing.T) {
		nav, err := Decide(a, Outcome{StatusCode: http.StatusOK, Location: base + "/x",
			ContentType: "text/plain", Body: []byte("s p o")})
		require.NoError(t, err)
		assert.Equal(t, NavRender, nav.Kind)
		assert.Empty(t, nav.Target)
		assert.Equal(t, "s p o", string(nav.Content))
		assert.Equal(t, "text/plain", nav.ContentType)
	})

	t.Run("error is surfaced", func(t *testing.T) {
		_, err := Decide(a, Outcome{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Body: []byte("parse error")})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "Error running query", reqErr.Label)
		assert.Equal(t, "400 Bad Request", reqErr.Status)
		assert.Equal(t, "parse error", string(reqErr.Body))
	})
}

func TestDecide_NonSuccessNeverNavigates(t *testing.T) {
	actions := []Action{
		CreateChild(base, "", ""),
		CreateDatastream(base, "", "", strings.NewReader("x")),
		Delete(base + "/a"),
		CommitTransaction(base+"/tx", base),
		SparqlUpdate(base, "x"),
		UpdateAccessRoles(base, []byte("{}")),
	}
	statuses := []int{http.StatusMovedPermanently, http.StatusBadRequest, http.StatusNotFound,
		http.StatusConflict, http.StatusInternalServerError}

	for _, a := range actions {
		for _, st := range statuses {
			nav, err := Decide(a, Outcome{StatusCode: st, Location: base + "/x"})
			require.Error(t, err, "%s %d", a.Kind, st)
			assert.Equal(t, Navigation{}, nav)
		}
	}

	t.Run("not found unwraps to sentinel", func(t *testing.T) {
		_, err := Decide(Delete(base+"/a"), Outcome{StatusCode: http.StatusNotFound})
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Contains(t, err.Error(), "Error deleting resource: HTTP 404")
	})
}
