package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/tasks-tui/internal/config"
	"github.com/pdxmph/tasks-tui/internal/db"
	"github.com/pdxmph/tasks-tui/internal/logging"
	"github.com/pdxmph/tasks-tui/internal/storage"
	_ "github.com/pdxmph/tasks-tui/internal/storage/file"
	_ "github.com/pdxmph/tasks-tui/internal/storage/sqlite"
	"github.com/pdxmph/tasks-tui/internal/tasks"
	"github.com/pdxmph/tasks-tui/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/tasks-tui/config.toml)")
	initDB := flag.Bool("init", false, "create the task database and exit")
	fixtures := flag.Bool("fixtures", false, "seed sample tasks into an empty list")
	reset := flag.Bool("reset", false, "delete the stored task list and exit")
	listSlots := flag.Bool("slots", false, "list the stored task lists and exit")
	writeConfig := flag.Bool("write-config", false, "write the current configuration to the config file and exit")
	ephemeral := flag.Bool("ephemeral", false, "keep tasks in memory only")
	flag.Parse()

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal(err)
	}

	if *writeConfig {
		path := config.Path()
		if *configPath != "" {
			path = *configPath
			err = cfg.SaveTo(path)
		} else {
			err = cfg.Save()
		}
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Wrote configuration to %s\n", path)
		return
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logCloser.Close()

	if *initDB {
		if err := db.Initialize(cfg.Storage.Path, logger); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Created task database at %s\n", cfg.Storage.Path)
		return
	}

	backendName := cfg.Storage.Backend
	if *ephemeral {
		backendName = "memory"
	}

	backend, err := storage.Open(backendName, storage.Options{
		Path:     cfg.Storage.Path,
		FilePath: cfg.Storage.FilePath,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("%v (available: %s)", err, strings.Join(storage.ListBackends(), ", "))
	}
	defer backend.Close()
	logger.Info().Str("backend", backend.Name()).Msg("storage opened")

	if *listSlots {
		lister, ok := backend.(storage.Lister)
		if !ok {
			log.Fatalf("%s storage cannot list task lists", backend.Name())
		}
		infos, err := lister.List()
		if err != nil {
			log.Fatal(err)
		}
		if len(infos) == 0 {
			fmt.Println("No task lists stored")
		}
		for _, info := range infos {
			fmt.Printf("%-20s %8d bytes  updated %s\n", info.Key, info.Size,
				info.UpdatedAt.Local().Format(cfg.UI.TimeFormat))
		}
		return
	}

	if *reset {
		if err := backend.Delete(cfg.Storage.Slot); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Deleted task list %q from %s storage\n", cfg.Storage.Slot, backend.Name())
		return
	}

	store, err := tasks.NewStore(backend, cfg.Storage.Slot)
	if err != nil {
		log.Fatal(err)
	}
	logger.Info().Str("slot", store.Key()).Int("count", store.Len()).Msg("tasks restored")

	if *fixtures {
		if err := tasks.SeedFixtures(store); err != nil {
			log.Fatal(err)
		}
		logger.Info().Int("count", store.Len()).Msg("fixtures loaded")
	}

	// Create model
	model, err := tui.New(store, tui.Options{
		Logger:        logger,
		DefaultFilter: cfg.UI.DefaultFilter,
		TimeFormat:    cfg.UI.TimeFormat,
		Mascot:        cfg.UI.Mascot,
	})
	if err != nil {
		log.Fatal(err)
	}

	// Start the program
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited")
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
