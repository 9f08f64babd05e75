package app

import (
	"log/slog"

	"ferrytimetable.org/internal/appconf"
	"ferrytimetable.org/internal/timetable"
	"ferrytimetable.org/timetabledb"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Store     *timetabledb.Client
	Timetable *timetable.Service
}

// New wires the dataset client and the timetable service together. The
// dataset is opened lazily, so a missing file does not stop the server.
func New(cfg appconf.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	store := timetabledb.NewClient(cfg.TimetableConfig(logger))
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Timetable: timetable.NewService(store, logger),
	}
}

func (app *Application) Close() error {
	if app.Store == nil {
		return nil
	}
	return app.Store.Close()
}
