package main

import (
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"

	"github.com/robmorgan/encore/engine"
	"github.com/robmorgan/encore/logger"
)

// GroupSource resolves a group id into the audio cues a go on that group
// starts. The engine itself only ever plays audio cues.
type GroupSource interface {
	GroupPlayIDs(id string) []string
}

// Trigger is an osc.Dispatcher mapping /encore/* messages onto engine
// operations. A play naming a group id starts the group's member cues.
type Trigger struct {
	eng    engine.Manager
	groups GroupSource

	// fade is used for stops that name no fade time of their own.
	fade time.Duration
}

// Dispatch implements Dispatcher.Dispatch. Bundles are unpacked message by
// message; anything unrecognized is logged and dropped.
func (t *Trigger) Dispatch(packet osc.Packet) {
	if packet == nil {
		return
	}
	switch packet := packet.(type) {
	case *osc.Message:
		t.handle(packet)
	case *osc.Bundle:
		for _, msg := range packet.Messages {
			t.handle(msg)
		}
		for _, bundle := range packet.Bundles {
			t.Dispatch(bundle)
		}
	}
}

func (t *Trigger) handle(msg *osc.Message) {
	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"address": msg.Address, "args": len(msg.Arguments)}).Debug("osc message")

	switch msg.Address {
	case "/encore/play":
		if id, ok := stringArg(msg, 0); ok {
			// Open failures are logged by the engine; the server keeps
			// listening.
			for _, playID := range t.playIDs(id) {
				_ = t.eng.Play(playID)
			}
		}
	case "/encore/stop":
		if id, ok := stringArg(msg, 0); ok {
			fade := t.fade
			if secs, ok := floatArg(msg, 1); ok {
				fade = time.Duration(secs * float64(time.Second))
			}
			t.eng.Stop(id, fade)
		}
	case "/encore/stopall":
		fade := t.fade
		if secs, ok := floatArg(msg, 0); ok {
			fade = time.Duration(secs * float64(time.Second))
		}
		t.eng.StopAll(fade)
	case "/encore/volume":
		id, okID := stringArg(msg, 0)
		v, okV := floatArg(msg, 1)
		if okID && okV {
			t.eng.SetVolume(id, v)
		}
	case "/encore/unduck":
		t.eng.UnduckAll()
	case "/encore/master":
		if v, ok := floatArg(msg, 0); ok {
			t.eng.SetMasterGain(v)
		}
	default:
		log.WithFields(logrus.Fields{"address": msg.Address}).Debug("osc: unknown address")
	}
}

// playIDs expands a group id into its member cues per the group's start
// behavior. Audio cue ids pass through untouched.
func (t *Trigger) playIDs(id string) []string {
	if t.groups != nil {
		if ids := t.groups.GroupPlayIDs(id); len(ids) > 0 {
			return ids
		}
	}
	return []string{id}
}

// stringArg pulls argument i as a string.
func stringArg(msg *osc.Message, i int) (string, bool) {
	if i >= len(msg.Arguments) {
		return "", false
	}
	s, ok := msg.Arguments[i].(string)
	return s, ok
}

// floatArg pulls argument i as a float, accepting the number types OSC
// clients actually send.
func floatArg(msg *osc.Message, i int) (float64, bool) {
	if i >= len(msg.Arguments) {
		return 0, false
	}
	switch v := msg.Arguments[i].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
