// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/render"
)

// SceneType is the engo scene name
const SceneType = "TrainerScene"

// TrainerScene runs a trainer session inside an engo window
type TrainerScene struct {
	session *render.Session
	assets  *AssetManager
	logger  *logging.Logger

	width  float32
	height float32

	renderer *EngoRenderer
}

// NewTrainerScene creates a scene for a window of width x height. The
// session's renderer is replaced when the scene is set up.
func NewTrainerScene(session *render.Session, width, height float32, logger *logging.Logger) *TrainerScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &TrainerScene{
		session: session,
		assets:  NewAssetManager(),
		logger:  logger,
		width:   width,
		height:  height,
	}
}

// Type returns the scene type (required by Engo)
func (scene *TrainerScene) Type() string {
	return SceneType
}

// Preload loads the HUD font (required by Engo). The scene still runs
// without it, with the HUD hidden.
func (scene *TrainerScene) Preload() {
	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(context.Background(), "HUD font unavailable", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *TrainerScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Warn(context.Background(), "unexpected engo updater, scene not set up")
		return
	}
	common.SetBackground(ColorSky)

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	SetupInputBindings()
	world.AddSystem(NewInputSystem(scene.session.Controls))

	scene.attach(renderSystem)
	world.AddSystem(&SimulationSystem{session: scene.session})

	scene.logger.Info(context.Background(), "engo scene started",
		"width", scene.width,
		"height", scene.height)
}

// attach creates the renderer on sink and hands it to the session
func (scene *TrainerScene) attach(sink drawSink) {
	scene.renderer = NewEngoRenderer(sink, NewViewport(scene.width, scene.height), scene.assets)
	scene.session.Renderer = scene.renderer
}

// Exit is called when the window closes
func (scene *TrainerScene) Exit() {
	scene.logger.Info(context.Background(), "engo scene closed", "frames", scene.session.Frames())
}

// SimulationSystem steps the session once per engo frame. The engine is
// advanced by the session clock rather than engo's dt so every front end
// shares the same delta handling.
type SimulationSystem struct {
	session *render.Session
}

// Remove satisfies the ecs.System interface
func (s *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Priority runs the simulation after input and before rendering
func (s *SimulationSystem) Priority() int {
	return 10
}

// Update runs one session step
func (s *SimulationSystem) Update(dt float32) {
	s.session.Step()
}

// RunOptions returns the engo window options for the trainer
func RunOptions(width, height int, fullscreen bool) engo.RunOptions {
	return engo.RunOptions{
		Title:      "Cannon Trainer",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		VSync:      true,
	}
}
