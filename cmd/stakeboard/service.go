package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// program adapts the server loop to the system service manager.
type program struct {
	cfgPath string
	errc    chan error
}

func (p *program) Start(_ service.Service) error {
	go func() {
		p.errc <- runServer(p.cfgPath)
	}()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	// The service manager kills the process after Stop returns; the
	// module system's signal handling covers interactive runs.
	return nil
}

func newService(cfgPath string) (service.Service, *program, error) {
	prg := &program{cfgPath: cfgPath, errc: make(chan error, 1)}

	args := []string{"service", "run"}
	if cfgPath != "" {
		args = append(args, "--config", cfgPath)
	}

	svc, err := service.New(prg, &service.Config{
		Name:        "stakeboard",
		DisplayName: "Stakeboard",
		Description: "Betting session and high-stakes leaderboard server",
		Arguments:   args,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, prg, nil
}

// serviceCmd manages stakeboard as a system service (systemd, launchd,
// Windows services).
func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage stakeboard as a system service",
	}

	var cfgPath string
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to configuration file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "install",
			Short: "Install the system service",
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, _, err := newService(cfgPath)
				if err != nil {
					return err
				}
				if err := svc.Install(); err != nil {
					return err
				}
				fmt.Println("Service installed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "uninstall",
			Short: "Remove the system service",
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, _, err := newService(cfgPath)
				if err != nil {
					return err
				}
				if err := svc.Uninstall(); err != nil {
					return err
				}
				fmt.Println("Service removed.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "run",
			Short: "Run under the service manager (used by install)",
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, _, err := newService(cfgPath)
				if err != nil {
					return err
				}
				return svc.Run()
			},
		},
	)

	return cmd
}
