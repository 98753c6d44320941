// The monitor is a terminal view onto a running playback engine: one
// progress bar per active instance, plus go/stop/unduck keys. It plays the
// demo show through the real speaker.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/utils/clock"

	"github.com/robmorgan/encore/audio"
	"github.com/robmorgan/encore/config"
	"github.com/robmorgan/encore/engine"
	"github.com/robmorgan/encore/logger"
	"github.com/robmorgan/encore/show"
)

func main() {
	log := logger.GetProjectLogger()

	cfg, err := config.NewEncoreConfig()
	if err != nil {
		log.Fatal(err)
	}

	out, err := audio.NewSpeakerOutput(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	graph := show.BuildDemoShow()
	eng := engine.New(cfg, clock.RealClock{}, out, graph)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go eng.Run(ctx, &wg)

	if err := tea.NewProgram(newModel(cfg, eng, graph)).Start(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}

	eng.StopAll(0)
	cancel()
	wg.Wait()
}
