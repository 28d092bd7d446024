package main

import (
	cmd "github.com/robotsummary/robot-summary/cmd/robotsummary"
	"github.com/robotsummary/robot-summary/data"
	"github.com/robotsummary/robot-summary/internal/assets"
)

func main() {
	assets.UpdateData(&data.Templates)
	cmd.Execute()
}
