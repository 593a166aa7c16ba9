package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/wolong/internal/settings"
)

// cmdSound shows or changes sound settings
func cmdSound(args []string) error {
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var sound settings.Sound
	switch {
	case len(args) == 0:
		sound = a.Sound.Load(ctx)
	case args[0] == "on":
		sound = a.Sound.SetEnabled(ctx, true)
	case args[0] == "off":
		sound = a.Sound.SetEnabled(ctx, false)
	case args[0] == "reset":
		sound = a.Sound.Reset(ctx)
	case args[0] == "volume" && len(args) > 1:
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("parse volume: %w", err)
		}
		sound = a.Sound.SetVolume(ctx, v)
	default:
		return fmt.Errorf("usage: wolong sound [on|off|volume <0-1>|reset]")
	}

	fmt.Println(formatSound(sound))
	return nil
}

func formatSound(s settings.Sound) string {
	state := "off"
	if s.Enabled {
		state = "on"
	}
	return fmt.Sprintf("Sound: %s  Volume: %s %.0f%%", state, renderProgressBar(s.Volume, 10), s.Volume*100)
}
