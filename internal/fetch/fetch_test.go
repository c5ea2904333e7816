package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukibk/textractor/internal/blob"
)

const listingHTML = `<!doctype html>
<html><body>
<ul>
  <li><a href="/uas/media/107W-2021-01234.pdf">107W-2021-01234</a></li>
  <li><a href="https://cdn.example.test/media/107W-2021-05678.PDF">107W-2021-05678</a></li>
  <li><a href="/uas/part_107_waivers/">More waivers</a></li>
  <li><a href="/uas/media/notes.txt">Notes</a></li>
</ul>
</body></html>`

func TestListPDFLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer srv.Close()

	f := NewFetcher("https://www.faa.test", nil)
	links, err := f.ListPDFLinks(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.faa.test/uas/media/107W-2021-01234.pdf",
		"https://cdn.example.test/media/107W-2021-05678.PDF",
	}, links)
}

func TestListPDFLinks_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher("https://www.faa.test", nil)
	_, err := f.ListPDFLinks(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 503")
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/media/a.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 a"))
		case "/media/b.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 b"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	blobs := blob.NewDirStore(t.TempDir())
	// b is already on disk from an earlier pass.
	require.NoError(t, blobs.Put(ctx, "waivers-raw-pdf/b.pdf", []byte("old")))

	f := NewFetcher(srv.URL, nil)
	links := []string{
		srv.URL + "/media/a.pdf",
		srv.URL + "/media/b.pdf",
		srv.URL + "/media/missing.pdf",
	}
	stats, err := f.Download(ctx, links, blobs, "waivers-raw-pdf/")
	require.NoError(t, err)

	assert.Equal(t, DownloadStats{Listed: 3, Skipped: 1, Downloaded: 1, Failed: 1}, stats)

	data, err := blobs.Get(ctx, "waivers-raw-pdf/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 a"), data)

	// The skipped document keeps its existing bytes.
	data, err = blobs.Get(ctx, "waivers-raw-pdf/b.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), data)
}

func TestBaseName(t *testing.T) {
	name, err := baseName("https://www.faa.test/uas/media/107W-2021-01234.pdf")
	require.NoError(t, err)
	assert.Equal(t, "107W-2021-01234.pdf", name)

	_, err = baseName("https://www.faa.test/")
	assert.Error(t, err)
}
