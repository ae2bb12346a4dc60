package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"renal-prescription-audit/internal/adapters/auth/his"
	"renal-prescription-audit/internal/adapters/drugdata"
	"renal-prescription-audit/internal/adapters/ruletable"
	"renal-prescription-audit/internal/domain/audit"
	"renal-prescription-audit/internal/domain/drugs"
	"renal-prescription-audit/internal/platform/logger"
	"renal-prescription-audit/internal/ports/auth"
	"renal-prescription-audit/internal/router"
)

//	@title			Renal Prescription Audit API
//	@version		1.0
//	@description	Backend de auditoría de prescripciones para pacientes con función renal comprometida.
//	@BasePath		/

func main() {
	// .env es opcional; en prod las vars vienen del entorno
	_ = godotenv.Load()

	lg := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	rules := ruletable.Load(envOr("RULE_TABLE_PATH", "data/rule_table.json"), lg)
	engine := audit.NewEngine(audit.BuildIndex(rules), lg)

	products := drugdata.LoadCatalog(envOr("DRUG_DATA_PATH", "data/drug_data.json"), lg)
	ingredients := drugdata.LoadIngredients(envOr("INGREDIENT_DATA_PATH", "data/ingredient_data.json"), lg)
	catalog := drugs.NewCatalog(products, ingredients)

	r := router.NewRouter(router.Options{
		AuthVerifier: verifierFromEnv(lg), // nil => modo dev con X-Debug-User-ID
		Engine:       engine,
		Catalog:      catalog,
		Log:          lg,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// verifierFromEnv arma el verifier contra el SSO del hospital solo si
// HIS_BASE_URL y HIS_API_KEY están seteadas.
func verifierFromEnv(lg logger.Logger) auth.AuthVerifier {
	baseURL := os.Getenv("HIS_BASE_URL")
	apiKey := os.Getenv("HIS_API_KEY")
	if baseURL == "" || apiKey == "" {
		lg.Warn("HIS verifier not configured, running in dev auth mode", nil)
		return nil
	}

	client, err := his.NewClient(his.Config{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		APIKeyHeader: os.Getenv("HIS_API_KEY_HEADER"),
	})
	if err != nil {
		lg.Error("invalid HIS config, running in dev auth mode", map[string]any{"error": err.Error()})
		return nil
	}
	return his.NewVerifier(client)
}
