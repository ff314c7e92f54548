package main

import (
	"flag"
	"log"

	"github.com/decker502/cannon/pkg/app"
	"github.com/decker502/cannon/pkg/config"
	"github.com/decker502/cannon/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	stage := flag.Int("stage", -1, "起始关卡索引（从 0 开始），默认从存档继续")
	stagesPath := flag.String("stages", "", "关卡配置文件路径，默认使用内置关卡")
	cannonPath := flag.String("cannon", "", "大炮配置文件路径，默认使用内置配置")
	flag.Parse()

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Stage:      *stage,
		StagesPath: *stagesPath,
		CannonPath: *cannonPath,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Cannon Arcade")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(gameApp)
	gameApp.Shutdown()
	if runErr != nil {
		log.Fatal(runErr)
	}
}
