package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "renal-prescription-audit/internal/adapters/storage/memory"
	pg "renal-prescription-audit/internal/adapters/storage/postgres"
	"renal-prescription-audit/internal/domain/audit"
	"renal-prescription-audit/internal/domain/drugs"
	"renal-prescription-audit/internal/domain/orders"
	"renal-prescription-audit/internal/domain/patients"
	"renal-prescription-audit/internal/middleware"
	"renal-prescription-audit/internal/platform/logger"
	"renal-prescription-audit/internal/ports/auth"

	_ "renal-prescription-audit/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Engine y Catalog los arma main con los datasets cargados; si
	// faltan (tests) se construyen vacíos y todo audita "sin regla".
	Engine  *audit.Engine
	Catalog *drugs.Catalog

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{Level: logger.Warn})
	}

	engine := opts.Engine
	if engine == nil {
		engine = audit.NewEngine(audit.BuildIndex(nil), log)
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = drugs.NewCatalog(nil, nil)
	}

	var (
		patientsRepo patients.Repository
		ordersRepo   orders.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		patientsRepo = pg.NewPatientsRepo(db)
		ordersRepo = pg.NewOrdersRepo(db)
	} else {
		patientsRepo = mem.NewPatientsRepo()
		ordersRepo = mem.NewOrdersRepo()
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientsRepo)
	ordersSvc := orders.NewService(ordersRepo, patientsSvc, catalog, engine, log)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc)
	drugs.RegisterRoutes(r, catalog)
	orders.RegisterRoutes(r, ordersSvc)

	return r
}
