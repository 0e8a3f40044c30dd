// readygate
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package shell

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/readiness"
)

var (
	checkingPage = template.Must(template.New("checking").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>Connecting</title>
</head>
<body>
<main>
<h1>Connecting to the database</h1>
<p>Checking the connection, this page reloads automatically.</p>
</main>
</body>
</html>
`))

	failedPage = template.Must(template.New("failed").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Connection failed</title>
</head>
<body>
<main>
<h1>Connection failed</h1>
<p>{{ .Remediation }}</p>
{{- if .Reason }}
<details>
<summary>Details ({{ .Category }})</summary>
<pre>{{ .Reason }}</pre>
</details>
{{- end }}
<form method="post" action="/retry">
<button type="submit">Retry</button>
</form>
</main>
</body>
</html>
`))
)

// failedView is the data of the failure page
type failedView struct {
	Category    readiness.Category
	Reason      string
	Remediation string
}

// Pages returns the handler of the page tree mounted once the shell is ready.
// Files are served from dir, unknown paths fall back to its index.html.
// Without a directory a plain ok page is served.
func Pages(ctx context.Context, dir string) http.Handler {
	if dir == "" {
		return okHandler(ctx)
	}
	return &spaHandler{root: dir, files: http.FileServer(http.Dir(dir))}
}

type spaHandler struct {
	root  string
	files http.Handler
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(h.root, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) && !strings.HasPrefix(r.URL.Path, "/static/") {
		http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
		return
	}
	h.files.ServeHTTP(w, r)
}

// okHandler returns a handler that will serve status ok
func okHandler(ctx context.Context) http.Handler {
	log := logger.FromContext(ctx)

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			log.Error("Could not write response", "error", err.Error())
		}
	})
}
