package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/charmbracelet/log"
)

// indexFiles are served in place of a directory listing, first match wins.
var indexFiles = []string{"index.html", "index.htm"}

// Files serves the contents of a file system over GET and HEAD.
//
// Unlike http.FileServer, a request for .../index.html is answered with
// the file itself instead of a redirect to the directory.
type Files struct {
	root   http.FileSystem
	logger *log.Logger
}

// NewFiles returns a Files handler rooted at root.
func NewFiles(root http.FileSystem, logger *log.Logger) *Files {
	return &Files{
		root:   root,
		logger: logger,
	}
}

func (f *Files) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, fmt.Sprintf("Unsupported method ('%s')", req.Method), http.StatusNotImplemented)
		return
	}

	upath := req.URL.Path
	if !strings.HasPrefix(upath, "/") {
		upath = "/" + upath
	}
	name := path.Clean(upath)

	file, err := f.root.Open(name)
	if err != nil {
		f.serveError(rw, name, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		f.serveError(rw, name, err)
		return
	}

	if info.IsDir() {
		if !strings.HasSuffix(upath, "/") {
			redirectToDir(rw, req, upath)
			return
		}
		f.serveDir(rw, req, name, file)
		return
	}

	// A trailing slash names a directory, and this is a file.
	if strings.HasSuffix(upath, "/") {
		http.Error(rw, "File not found", http.StatusNotFound)
		return
	}

	http.ServeContent(rw, req, info.Name(), info.ModTime(), file)
}

func (f *Files) serveDir(rw http.ResponseWriter, req *http.Request, name string, dir http.File) {
	for _, index := range indexFiles {
		file, err := f.root.Open(path.Join(name, index))
		if err != nil {
			continue
		}
		info, err := file.Stat()
		if err != nil || info.IsDir() {
			_ = file.Close()
			continue
		}
		http.ServeContent(rw, req, info.Name(), info.ModTime(), file)
		_ = file.Close()
		return
	}

	entries, err := dir.Readdir(-1)
	if err != nil {
		f.serveError(rw, name, err)
		return
	}
	if err := writeListing(rw, req.URL.Path, entries); err != nil {
		f.logger.Error("Failed to write directory listing", "path", name, "err", err)
	}
}

// redirectToDir sends a relative redirect to upath with a trailing slash,
// keeping the query string.
func redirectToDir(rw http.ResponseWriter, req *http.Request, upath string) {
	target := url.URL{Path: path.Base(upath) + "/", RawQuery: req.URL.RawQuery}
	rw.Header().Set("Location", target.String())
	rw.WriteHeader(http.StatusMovedPermanently)
}

func (f *Files) serveError(rw http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(rw, "File not found", http.StatusNotFound)
	case errors.Is(err, fs.ErrPermission):
		http.Error(rw, "Forbidden", http.StatusForbidden)
	default:
		f.logger.Error("Failed to open", "path", name, "err", err)
		http.Error(rw, "Internal Server Error", http.StatusInternalServerError)
	}
}
