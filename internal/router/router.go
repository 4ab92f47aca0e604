package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	goredis "github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-tag/docs"

	"pet-tag/internal/adapters/auth/session"
	"pet-tag/internal/adapters/capabilities/useragent"
	kvmemory "pet-tag/internal/adapters/kv/memory"
	kvredis "pet-tag/internal/adapters/kv/redis"
	objmemory "pet-tag/internal/adapters/objects/memory"
	mem "pet-tag/internal/adapters/storage/memory"
	pg "pet-tag/internal/adapters/storage/postgres"
	"pet-tag/internal/config"
	"pet-tag/internal/domain/contacts"
	"pet-tag/internal/domain/dashboard"
	"pet-tag/internal/domain/nfc"
	"pet-tag/internal/domain/pets"
	"pet-tag/internal/domain/profile"
	"pet-tag/internal/domain/registration"
	"pet-tag/internal/domain/scans"
	"pet-tag/internal/domain/users"
	"pet-tag/internal/middleware"
	"pet-tag/internal/platform/logger"
	"pet-tag/internal/ports/auth"
	"pet-tag/internal/ports/capabilities"
	"pet-tag/internal/ports/kv"
	"pet-tag/internal/ports/objects"
)

type Options struct {
	Config config.Config
	Log    logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev, X-Debug-User-ID)
	Sessions     auth.SessionIssuer
	Identity     auth.IdentityProvider // nil => sin login con Google

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
	// Opcional: drafts, sesiones NFC y rate limit. Si no, kv in-memory sin rate limit.
	Redis goredis.UniversalClient

	Photos       objects.Store                     // nil => in-memory
	Capabilities capabilities.CapabilitiesResolver // nil => User-Agent
}

type repos struct {
	pets         pets.Repository
	users        users.Repository
	contacts     contacts.Repository
	scans        scans.Repository
	registration registration.Writer
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			pets:         pg.NewPetsRepo(db),
			users:        pg.NewUsersRepo(db),
			contacts:     pg.NewContactsRepo(db),
			scans:        pg.NewScansRepo(db),
			registration: pg.NewRegistrationWriter(db),
		}
	}
	petRepo := mem.NewPetRepo()
	contactRepo := mem.NewContactRepo()
	return repos{
		pets:         petRepo,
		users:        mem.NewUserRepo(),
		contacts:     contactRepo,
		scans:        mem.NewScanRepo(),
		registration: mem.NewRegistrationWriter(petRepo, contactRepo),
	}
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	rp := newRepos(opts.DB)

	var (
		store   kv.Store
		limiter middleware.Limiter
	)
	if opts.Redis != nil {
		store = kvredis.NewStore(opts.Redis, cfg.AppName+":")
		limiter = kvredis.NewLimiter(opts.Redis, cfg.ScanRateLimit, cfg.ScanRateWindow)
	} else {
		store = kvmemory.NewStore()
	}

	photos := opts.Photos
	if photos == nil {
		photos = objmemory.NewStore()
	}
	caps := opts.Capabilities
	if caps == nil {
		caps = useragent.NewResolver(cfg.AllowAllCapabilities && !cfg.IsProduction())
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	}

	// Services por módulo
	petsSvc := pets.NewService(rp.pets, photos)
	usersSvc := users.NewService(rp.users, petsSvc)
	contactsSvc := contacts.NewService(rp.contacts, petsSvc, cfg.DefaultPhoneRegion)
	scansSvc := scans.NewService(rp.scans, petsSvc)
	regSvc := registration.NewService(registration.Deps{
		Drafts:   store,
		Pets:     petsSvc,
		Contacts: contactsSvc,
		Writer:   rp.registration,
		Photos:   photos,
		Log:      log,
	})
	nfcSvc := nfc.NewService(petsSvc, store, caps, cfg.PublicBaseURL, log)
	profileSvc := profile.NewService(petsSvc, contactsSvc, scansSvc, log)
	dashSvc := dashboard.NewService(petsSvc, scansSvc, cfg.SupportEmail)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, users.HandlerOptions{
		Sessions:      sessions,
		Provider:      opts.Identity,
		SecureCookies: cfg.IsProduction(),
		Log:           log,
	})
	registration.RegisterRoutes(r, regSvc)
	dashboard.RegisterRoutes(r, dashSvc)
	pets.RegisterRoutes(r, petsSvc)
	nfc.RegisterRoutes(r, nfcSvc)
	contacts.RegisterRoutes(r, contactsSvc)
	scans.RegisterRoutes(r, scansSvc, middleware.RateLimit(limiter, "scan:", log))
	profile.RegisterRoutes(r, profileSvc)

	// Catch-all de slugs: las rutas estáticas de arriba tienen prioridad.
	profile.RegisterSlugRoute(r, profileSvc)

	return r
}
