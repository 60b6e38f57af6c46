package handler

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE HTML>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Directory listing for {{.Path}}</title>
</head>
<body>
<h1>Directory listing for {{.Path}}</h1>
<hr>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
<hr>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Href string
}

type listing struct {
	Path    string
	Entries []listingEntry
}

// writeListing renders entries as an HTML page, sorted by name ignoring
// case. Directories get a trailing slash, symlinks are shown with '@'.
func writeListing(rw http.ResponseWriter, urlPath string, entries []fs.FileInfo) error {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	page := listing{Path: urlPath, Entries: make([]listingEntry, 0, len(entries))}
	for _, e := range entries {
		name, link := e.Name(), e.Name()
		switch {
		case e.IsDir():
			name += "/"
			link += "/"
		case e.Mode()&fs.ModeSymlink != 0:
			name += "@"
		}
		href := url.URL{Path: link}
		page.Entries = append(page.Entries, listingEntry{Name: name, Href: href.String()})
	}

	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, page); err != nil {
		http.Error(rw, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	rw.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(rw)
	return err
}
