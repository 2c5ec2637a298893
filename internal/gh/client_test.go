package gh

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRepoListServer serves a synthetic paginated org repo listing of total
// records with the given page size, counting requests.
func newRepoListServer(t *testing.T, org string, total, perPage int, requests *int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/"+org+"/repos", func(w http.ResponseWriter, r *http.Request) {
		*requests = *requests + 1

		page := 1
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			page = p
		}

		start := (page - 1) * perPage

		end := start + perPage
		if end > total {
			end = total
		}

		if end < total {
			next := fmt.Sprintf("http://%s/orgs/%s/repos?page=%d&per_page=%d", r.Host, org, page+1, perPage)
			w.Header().Set("Link", fmt.Sprintf("<%s>; rel=\"next\"", next))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, "[")

		for i := start; i < end; i++ {
			if i > start {
				_, _ = fmt.Fprint(w, ",")
			}

			_, _ = fmt.Fprintf(w,
				`{"name":"repo-%04d","clone_url":"https://github.com/%s/repo-%04d.git","ssh_url":"git@github.com:%s/repo-%04d.git","fork":%t,"archived":false}`,
				i, org, i, org, i, i%2 == 1)
		}

		_, _ = fmt.Fprint(w, "]")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestListOrgReposPagination(t *testing.T) {
	const perPage = 25

	tests := []struct {
		name         string
		total        int
		wantRequests int
	}{
		{"empty org", 0, 1},
		{"one short page", perPage - 1, 1},
		{"exactly one page", perPage, 1},
		{"one record over", perPage + 1, 2},
		{"three full pages", 3 * perPage, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := 0
			srv := newRepoListServer(t, "acme", tt.total, perPage, &requests)

			client := NewClient(context.Background(), "", WithBaseURL(srv.URL), WithPerPage(perPage))

			records, err := client.ListOrgRepos(context.Background(), "acme")
			require.NoError(t, err)

			assert.Len(t, records, tt.total)
			assert.Equal(t, tt.wantRequests, requests)

			// Server order is preserved across pages.
			for i, rec := range records {
				assert.Equal(t, fmt.Sprintf("repo-%04d", i), rec.Name)
			}
		})
	}
}

func TestListOrgReposRecordFields(t *testing.T) {
	requests := 0
	srv := newRepoListServer(t, "acme", 2, 25, &requests)

	client := NewClient(context.Background(), "", WithBaseURL(srv.URL), WithPerPage(25))

	records, err := client.ListOrgRepos(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "https://github.com/acme/repo-0000.git", records[0].CloneURL)
	assert.Equal(t, "git@github.com:acme/repo-0000.git", records[0].SSHURL)
	assert.False(t, records[0].Fork)
	assert.True(t, records[1].Fork)
}

func newErrorServer(t *testing.T, status int, headers map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"message":"status %d"}`, status)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestListOrgReposNotFound(t *testing.T) {
	srv := newErrorServer(t, http.StatusNotFound, nil)
	client := NewClient(context.Background(), "", WithBaseURL(srv.URL))

	_, err := client.ListOrgRepos(context.Background(), "nosuchorg")
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nosuchorg", notFound.Org)
}

func TestListOrgReposAuthErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers map[string]string
	}{
		{"unauthorized", http.StatusUnauthorized, nil},
		{"forbidden", http.StatusForbidden, nil},
		{
			"rate limited", http.StatusForbidden,
			map[string]string{
				"X-RateLimit-Limit":     "60",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     "1700000000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newErrorServer(t, tt.status, tt.headers)
			client := NewClient(context.Background(), "badtoken", WithBaseURL(srv.URL))

			_, err := client.ListOrgRepos(context.Background(), "acme")
			require.Error(t, err)

			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.status, authErr.StatusCode)
		})
	}
}

func TestListOrgReposNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())

	baseURL := srv.URL
	srv.Close() // nothing listens anymore

	client := NewClient(context.Background(), "", WithBaseURL(baseURL))

	_, err := client.ListOrgRepos(context.Background(), "acme")
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}
