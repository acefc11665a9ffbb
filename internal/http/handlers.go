package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/CHOCOLAnyo/pca-devops-lab/internal/config"
	httpopenapi "github.com/CHOCOLAnyo/pca-devops-lab/internal/http/openapi"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/model"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/notify"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/obs"
	"github.com/CHOCOLAnyo/pca-devops-lab/internal/store"
)

// App wires the counter store and the notifier into the HTTP handlers.
// Each request is stateless; the only persistent state lives in the store.
type App struct {
	Cfg      config.Config
	Store    *store.Store
	Notifier *notify.Notifier
}

func NewApp(cfg config.Config, st *store.Store, n *notify.Notifier) *App {
	return &App{Cfg: cfg, Store: st, Notifier: n}
}

// homeHandler renders the voting page. It performs no backend call, so it
// never fails due to store trouble.
func (a *App) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = pageTmpl.Execute(w, pageData{
		Version:   a.Cfg.Version,
		RedisHost: a.Cfg.RedisHost,
		Hostname:  a.Cfg.Hostname,
	})
}

func (a *App) voteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	product := strings.TrimPrefix(r.URL.Path, "/vote/")
	if product == "" || strings.Contains(product, "/") {
		WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}
	count, err := a.Store.Increment(r.Context(), product)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	obs.Votes.WithLabelValues(product, a.Cfg.Version).Inc()
	a.Notifier.Notify(fmt.Sprintf("%s received a vote! current total: %d", product, count))
	writeJSON(w, http.StatusOK, model.VoteResult{
		Status:       "success",
		CurrentCount: count,
		Version:      a.Cfg.Version,
	})
	obs.Logger.Info("vote_recorded",
		"product", product,
		"count", count,
		"request_id", RequestIDFromContext(r.Context()),
	)
}

func (a *App) listHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	counts, err := a.Store.Counts(r.Context())
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, model.CountList{Data: counts, Version: a.Cfg.Version})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
