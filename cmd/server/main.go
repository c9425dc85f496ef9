package main

import (
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/joho/godotenv"
	"github.com/peopledeck/deck"
	"github.com/peopledeck/deck/persistent"
	"github.com/peopledeck/deck/transport/rest"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
)

func listenAndServe(
	profileDb *buntdb.DB,
	sessionDb *buntdb.DB,
	config config,
	debug bool,
) func() error {
	profileStore := &persistent.ProfileStore{Buntdb: profileDb}
	activityStore := &persistent.ActivityStore{Buntdb: sessionDb}
	sessionStore := &persistent.SessionStore{Buntdb: sessionDb, ActivityStore: activityStore}

	directory := &deck.Directory{Store: profileStore, Activity: activityStore}

	sessionController := rest.SessionController{Store: sessionStore, AccessCode: config.adminAccessCode}
	profileController := rest.ProfileController{Directory: directory, MapsApiKey: config.mapsApiKey}
	locationController := rest.LocationController{}
	activityController := rest.ActivityController{Store: activityStore}

	server := fiber.New()
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})

	allowOrigins := "https://peopledeck.app"
	if debug {
		allowOrigins += ", http://localhost:3000"
	}
	api.Use(cors.New(cors.Config{AllowOrigins: allowOrigins}))

	requestAuthorizer := rest.RequestAuthorizer(sessionStore)
	api.Get("/status", monitor.New())
	sessionController.InstallTo(requestAuthorizer, api)
	profileController.InstallTo(requestAuthorizer, api)
	locationController.InstallTo(api)
	activityController.InstallTo(requestAuthorizer, api)

	server.Mount("/api/", api)

	server.Static("/", "./www/", fiber.Static{
		Browse: false,
		Index:  "index.html",
	})

	server.Use(rest.NotFoundHandler)

	var addr string
	if debug {
		addr = "127.0.0.1:7312"
	} else {
		addr = ":7312"
	}
	go server.Listen(addr)

	return func() error {
		return server.Shutdown()
	}
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "deck_backend")
	if err != nil {
		logrus.WithError(err).Warningln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

type config struct {
	dbPath          string
	adminAccessCode string
	mapsApiKey      string
}

func configFromEnv() config {
	dbPath := os.Getenv("DECK_DB")
	if dbPath == "" {
		dbPath = "deck.db"
	}
	return config{
		dbPath:          dbPath,
		adminAccessCode: os.Getenv("ADMIN_ACCESS_CODE"),
		mapsApiKey:      os.Getenv("GOOGLE_MAPS_API_KEY"),
	}
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	if err := godotenv.Load(); err == nil {
		logrus.Infoln("Loaded environment from .env file.")
	}
	debug := os.Getenv("DEBUG") == "true"
	setupLogger(debug)
	logrus.Infoln("Starting backend.")

	config := configFromEnv()

	profileDb, err := buntdb.Open(config.dbPath)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open profile db.")
	}
	defer profileDb.Close()

	// admin sessions and the audit trail are process-scoped. keeping
	// them off disk resets admin mode on every reload.
	sessionDb, err := buntdb.Open(":memory:")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open session db.")
	}
	defer sessionDb.Close()

	logrus.Infoln("Starting listening... To shut down use ^C")
	shutdown := listenAndServe(profileDb, sessionDb, config, debug)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	err = shutdown()
	if err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
	logrus.Exit(0)
}
