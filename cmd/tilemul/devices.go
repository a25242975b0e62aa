package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/salehjg/tilemul/internal/device"
)

func devicesCmd() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List available compute devices and host capabilities",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("devices: %s\n", device.Available())

			info := device.Host()
			fmt.Printf("host:    %s/%s, %d CPUs, GOMAXPROCS %d\n",
				info.OS, info.Arch, info.CPUs, info.MaxProcs)

			names := make([]string, 0, len(info.Features))
			for name := range info.Features {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %-12s %v\n", name, info.Features[name])
			}
			return nil
		},
	}
}
