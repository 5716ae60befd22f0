package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCompanyDataAttribute(t *testing.T) {
	srv := servePage(t, `<html><body>
		<div data-company-name="Barclays Bank PLC">Apply now</div>
	</body></html>`)

	got, err := NewTitleFetcher().FetchCompany(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Barclays Bank PLC", got)
}

func TestFetchCompanyJSONLD(t *testing.T) {
	srv := servePage(t, `<html><head>
		<script type="application/ld+json">
		{"@type": "JobPosting", "hiringOrganization": {"name": "HSBC Bank Plc"}}
		</script>
	</head><body></body></html>`)

	got, err := NewTitleFetcher().FetchCompany(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "HSBC Bank Plc", got)
}

func TestFetchCompanyTitleAtPattern(t *testing.T) {
	srv := servePage(t, `<html><head>
		<title>Software Engineer at Monzo - Indeed.com</title>
	</head><body></body></html>`)

	got, err := NewTitleFetcher().FetchCompany(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Monzo", got)
}

func TestFetchCompanyTitlePipeSuffix(t *testing.T) {
	srv := servePage(t, `<html><head>
		<title>Revolut Careers | Join us</title>
	</head><body></body></html>`)

	got, err := NewTitleFetcher().FetchCompany(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Revolut Careers", got)
}

func TestFetchCompanyNothingFound(t *testing.T) {
	srv := servePage(t, `<html><head></head><body><p>hello</p></body></html>`)

	got, err := NewTitleFetcher().FetchCompany(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchCompanyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	_, err := NewTitleFetcher().FetchCompany(context.Background(), srv.URL)
	assert.Error(t, err)
}
