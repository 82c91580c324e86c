package main

import (
	"github.com/airenas/audiobook/internal/app/studio"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	studio.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
                   ___       __                __  
  ____ ___  ______/ (_)___  / /_  ____  ____  / /__
 / __ ` + "`" + `/ / / / __  / / __ \/ __ \/ __ \/ __ \/ //_/
/ /_/ / /_/ / /_/ / / /_/ / /_/ / /_/ / /_/ / ,<   
\__,_/\__,_/\__,_/_/\____/_.___/\____/\____/_/|_|  
        __            ___     
  _____/ /___  ______/ (_)___ 
 / ___/ __/ / / / __  / / __ \
(__  ) /_/ /_/ / /_/ / / /_/ /
/____/\__/\__,_/\__,_/_/\____/   v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/airenas/audiobook"))
}
