package main

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"k8s.io/utils/clock"

	"github.com/robmorgan/encore/audio"
	"github.com/robmorgan/encore/config"
	"github.com/robmorgan/encore/engine"
	"github.com/robmorgan/encore/logger"
	"github.com/robmorgan/encore/show"
)

func main() {
	// We don't process any CLI flags or config for now, so just run the console with a context.
	ctx := context.Background()
	Run(ctx)
}

// Run starts the console
func Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	// initialize the logger
	logger := logger.GetProjectLogger()

	wg := sync.WaitGroup{}

	// initialize the global config
	logger.Info("Initializing config...")
	config, err := config.NewEncoreConfig()
	if err != nil {
		panic("error creating config")
	}

	// initialize the audio output
	logger.Info("Initializing speaker output...")
	out, err := audio.NewSpeakerOutput(config)
	if err != nil {
		logger.Fatalf("error initializing speaker output. err='%v'", err)
	}
	defer out.Close()

	// build show
	logger.Info("Building demo show...")
	graph := show.BuildDemoShow()

	// init the playback engine
	logger.Info("Initializing playback engine...")
	eng := engine.New(config, clock.RealClock{}, out, graph)

	// process cues forever
	logger.Info("Processing cues forever...")
	wg.Add(1)
	go eng.Run(ctx, &wg)

	// open the show with the first cue
	flat := graph.FlattenAudioCues()
	if len(flat) > 0 {
		if err := eng.Play(flat[0].ID); err != nil {
			logger.Errorf("could not start the opening cue: %v", err)
		}
	}

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	<-quit
	logger.Println("shutting down encore")
	eng.StopAll(0)
	cancel()
	wg.Wait()
}
