package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/label-smartlinks/pkg/app"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/config"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	application, err := app.New(context.Background(), cfg)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
