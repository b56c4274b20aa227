package local
import (
	"net/http"
	"github.com/go-chi/chi/v5"

	"stegbox/util"
	"stegbox/config"
)

// RunApiServer serves the local ui api: embed, extract and analyze over
// multipart uploads, everything else is static for the frontend to host.
func RunApiServer( sc *config.ServerConfig, logger *util.Logger ) error {
	pool := NewPool( sc.Workers, sc.QueueSize )
	defer pool.Close()

	logger.LogInfo( "Listening and serving at address " + sc.Address )
	return http.ListenAndServe( sc.Address, NewRouter( sc, logger, pool ) )
}

func NewRouter( sc *config.ServerConfig, logger *util.Logger, pool *Pool ) http.Handler {
	r := chi.NewRouter()
	r.Use( corsMiddleware( sc.AllowedOrigin ) )
	r.Use( limitUploads( sc.MaxUploadBytes ) )

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON( w, http.StatusOK, map[string]string{ "status": "ok" } )
	})
	r.Post("/api/embed", func(w http.ResponseWriter, req *http.Request) {
		handleEmbed( w, req, logger, pool )
	})
	r.Post("/api/extract", func(w http.ResponseWriter, req *http.Request) {
		handleExtract( w, req, logger, pool )
	})
	r.Post("/api/analyze", func(w http.ResponseWriter, req *http.Request) {
		handleAnalyze( w, req, logger, pool )
	})
	return r
}

func corsMiddleware( origin string ) func(http.Handler) http.Handler {
	return func( next http.Handler ) http.Handler {
		return http.HandlerFunc( func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set( "Access-Control-Allow-Origin", origin )
			w.Header().Set( "Access-Control-Allow-Methods", "GET, POST, OPTIONS" )
			w.Header().Set( "Access-Control-Allow-Headers", "Content-Type" )
			if req.Method == http.MethodOptions {
				w.WriteHeader( http.StatusNoContent )
				return
			}
			next.ServeHTTP( w, req )
		})
	}
}

func limitUploads( maxBytes int64 ) func(http.Handler) http.Handler {
	return func( next http.Handler ) http.Handler {
		return http.HandlerFunc( func(w http.ResponseWriter, req *http.Request) {
			req.Body = http.MaxBytesReader( w, req.Body, maxBytes )
			next.ServeHTTP( w, req )
		})
	}
}
