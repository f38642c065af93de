package service

import (
	"fmt"

	"playops/internal/playbook/models"
	"playops/internal/scene"
)

const (
	teamOrange = "#FF6B00"
	teamNavy   = "#1E3A5F"
)

type seat struct {
	color string
	x, y  float64
}

func lineup(seats ...seat) []scene.Player {
	out := make([]scene.Player, len(seats))
	for i, st := range seats {
		out[i] = scene.Player{
			ID:        fmt.Sprintf("p%d", i+1),
			Number:    fmt.Sprint(i + 1),
			TeamColor: st.color,
			Position:  scene.Point{X: st.x, Y: st.y},
			Size:      scene.DefaultPlayerSize,
		}
	}
	return out
}

func sampleScene(sport scene.Sport, players []scene.Player) scene.Scene {
	s := scene.New(sport)
	s.ViewTransform = nil
	for _, p := range players {
		s = s.WithPlayer(p)
	}
	return s
}

func strPtr(s string) *string { return &s }

// SamplePlays returns the plays a fresh playbook starts with.
func SamplePlays() []models.NewPlay {
	return []models.NewPlay{
		{
			Name:        "Pick and Roll",
			Description: strPtr("Classic basketball play"),
			Sport:       scene.SportBasketball,
			Tags:        []string{"offense", "basic"},
			Data: sampleScene(scene.SportBasketball, lineup(
				seat{teamOrange, 600, 500},
				seat{teamOrange, 500, 400},
				seat{teamNavy, 650, 450},
			)),
		},
		{
			Name:        "Zone Defense",
			Description: strPtr("2-3 zone defensive formation"),
			Sport:       scene.SportBasketball,
			Tags:        []string{"defense", "zone"},
			Data: sampleScene(scene.SportBasketball, lineup(
				seat{teamNavy, 450, 300},
				seat{teamNavy, 750, 300},
				seat{teamNavy, 350, 450},
				seat{teamNavy, 600, 450},
				seat{teamNavy, 850, 450},
			)),
		},
		{
			Name:        "Quick Sync Attack",
			Description: strPtr("Fast volleyball attack from setter"),
			Sport:       scene.SportVolleyball,
			Tags:        []string{"offense", "quick"},
			Data: sampleScene(scene.SportVolleyball, lineup(
				seat{teamOrange, 400, 400},
				seat{teamOrange, 600, 350},
				seat{teamOrange, 500, 500},
			)),
		},
	}
}
