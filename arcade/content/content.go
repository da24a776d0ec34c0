// Package content defines the arcade's fixed game and video catalogs. The
// lists are content, not configuration: ordering is meaningful (it drives
// menu slot indices) and the rest of the arcade treats them as immutable.
package content

// RenderMode selects how an embedded game reaches the screen texture.
type RenderMode string

const (
	// RenderModeBlit copies the game's canvas pixels into the screen surface
	// each frame. The game stays part of the 3D scene.
	RenderModeBlit RenderMode = "blit"
	// RenderModeOverlay positions the game's frame directly over the
	// projected screen rect, bypassing the texture.
	RenderModeOverlay RenderMode = "overlay"
)

// GameEntry describes one playable game in the menu.
type GameEntry struct {
	ID    string
	Label string
	URL   string
	Mode  RenderMode
	// SplashDurationMS overrides the default splash length when positive.
	SplashDurationMS int
}

// VideoEntry describes one video reel in the menu.
type VideoEntry struct {
	ID    string
	Label string
	Src   string
}

// Games returns the ordered game catalog.
func Games() []GameEntry {
	return []GameEntry{
		{ID: "battleship", Label: "Battleship", URL: "./games/battleship/index.html", Mode: RenderModeBlit},
		{ID: "plinko", Label: "Plinko", URL: "./games/plinko/index.html", Mode: RenderModeBlit},
		{ID: "train-mania", Label: "Train Mania", URL: "./games/train-mania/index.html", Mode: RenderModeBlit},
		{ID: "pick-a-square", Label: "Pick a Square", URL: "./games/pick-a-square/index.html", Mode: RenderModeBlit},
		{ID: "big-bomb-blast", Label: "Big Bomb Blast", URL: "./games/big-bomb-blast/index.html", Mode: RenderModeBlit},
	}
}

// Videos returns the ordered video catalog.
func Videos() []VideoEntry {
	return []VideoEntry{
		{ID: "reel", Label: "Game Reel", Src: "./Videos/games-page/video-games-reel-hq.webm"},
		{ID: "christmas", Label: "Christmas", Src: "./Videos/games-page/christmas-games-hq.webm"},
	}
}

// GameByID returns the game with the given id, or false when absent.
func GameByID(id string) (GameEntry, bool) {
	for _, g := range Games() {
		if g.ID == id {
			return g, true
		}
	}
	return GameEntry{}, false
}

// VideoByID returns the video with the given id, or false when absent.
func VideoByID(id string) (VideoEntry, bool) {
	for _, v := range Videos() {
		if v.ID == id {
			return v, true
		}
	}
	return VideoEntry{}, false
}
