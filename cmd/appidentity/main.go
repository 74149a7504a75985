package main

import "gitlab.com/caffeinatedjack/appidentity/internal/appidentity"

// Version and BuildTime are set at build time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	appidentity.Version = Version
	appidentity.BuildTime = BuildTime
	appidentity.Execute()
}
