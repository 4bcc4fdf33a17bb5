package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"denboard/api"
	"denboard/config"
	"denboard/handlers"
	"denboard/services/background"
	"denboard/services/cache"
	"denboard/services/calendar"
	"denboard/services/fetch"
	"denboard/services/homeassistant"
	"denboard/services/joke"
	"denboard/services/settings"
	"denboard/services/weather"
	"denboard/utils"
)

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()
	if *configPath == "" {
		*configPath = os.Getenv("DENBOARD_CONFIG")
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] load config: %v", err)
	}
	setupLogging(conf.LogPath)

	log.Printf("[main] denboard starting on %s (tz=%s units=%s)", conf.Listen, conf.Timezone, conf.Units)

	settingsSvc, err := settings.NewService(conf.SettingsPath, settings.DefaultsFromConfig(conf))
	if err != nil {
		log.Fatalf("[main] settings service: %v", err)
	}

	store := cache.New()
	client := fetch.NewClient(nil)

	weatherSvc := weather.New(settingsSvc, store, client, conf.HomeAssistantToken)
	calendarSvc := calendar.New(settingsSvc, store, client, conf.WeekStart)
	homeSvc := homeassistant.New(settingsSvc, client, conf.HomeAssistantToken)
	backgroundSvc := background.New(settingsSvc, store, client, conf.UnsplashAccessKey)
	jokeSvc := joke.New(store, client, conf.Refresh.DadJoke)

	authHandler := handlers.NewAuthHandler(conf.AdminPIN)
	weatherHandler := handlers.NewWeatherHandler(weatherSvc)
	calendarHandler := handlers.NewCalendarHandler(calendarSvc)
	homeHandler := handlers.NewHomeAssistantHandler(homeSvc)
	backgroundHandler := handlers.NewBackgroundHandler(weatherSvc, backgroundSvc)
	jokeHandler := handlers.NewJokeHandler(jokeSvc)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc, authHandler)

	router := utils.NewRouter()
	router.HandleFunc("/api/weather", weatherHandler.GetWeather).Methods(http.MethodGet)
	router.HandleFunc("/api/debug/weather", weatherHandler.GetWeatherDebug).Methods(http.MethodGet)
	router.HandleFunc("/api/calendar", calendarHandler.GetCalendar).Methods(http.MethodGet)
	router.HandleFunc("/api/home-assistant", homeHandler.GetStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/background", backgroundHandler.GetBackground).Methods(http.MethodGet)
	router.HandleFunc("/api/dadjoke", jokeHandler.GetJoke).Methods(http.MethodGet)
	router.HandleFunc("/api/settings", settingsHandler.GetSettings).Methods(http.MethodGet)
	router.HandleFunc("/api/settings", settingsHandler.PutSettings).Methods(http.MethodPut)

	// 5 login attempts per minute per IP; idle IPs age out after 10 minutes.
	loginLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5, 10*time.Minute)
	router.Handle("/api/admin/login",
		api.RateLimitHandler(loginLimiter, http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)

	server := &http.Server{
		Addr:         conf.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("[main] received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
	log.Printf("[main] stopped")
}

// setupLogging mirrors log output to a rotating file when a path is
// configured. Stderr always receives a copy for journald.
func setupLogging(path string) {
	if path == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
