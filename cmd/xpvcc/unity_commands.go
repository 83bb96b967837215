package main

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"xpvcc/internal/api"
	"xpvcc/internal/client"
	"xpvcc/internal/editor"
)

func newVersionsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List supported editor versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				versions, err := cl.Versions(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.VersionListResponse{Versions: versions})
				}
				rows := make([][]string, 0, len(versions))
				for _, v := range versions {
					rows = append(rows, []string{v.Version, v.QualifiedVersion, v.BuildHash, v.HubLink})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"Version", "Release", "Build", "Hub link"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	addJSONFlag(cmd, &asJSON)
	return cmd
}

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var (
		target    string
		host      string
		preferHub bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "install <version>",
		Short: "Download and launch an editor installer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := editor.ParseVersion(args[0])
			if err != nil {
				return err
			}
			req := api.InstallRequest{
				Version:   string(version),
				Target:    strings.TrimSpace(target),
				Host:      strings.TrimSpace(host),
				PreferHub: preferHub,
			}
			return ctx.withClient(func(cl *client.Client) error {
				resp, err := cl.Install(cmd.Context(), req)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, resp.Message)
				if resp.PID > 0 {
					fmt.Fprintf(out, "Installer pid: %d\n", resp.PID)
				}
				fmt.Fprintf(out, "Completion token: %s\n", resp.CompletionToken)
				fmt.Fprintf(out, "When the installer finishes run: xpvcc tell <install dir> %s\n", resp.CompletionToken)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Build target module (defaults to windows_mono)")
	cmd.Flags().StringVar(&host, "host", "", "Host platform (defaults to the daemon's platform)")
	cmd.Flags().BoolVar(&preferHub, "hub", false, "Delegate the install to Unity Hub when available")
	addJSONFlag(cmd, &asJSON)
	return cmd
}

func newTellCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tell <install dir> <completion token>",
		Short: "Report where a finished install put the editor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				resp, err := cl.Tell(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			})
		},
	}
	addJSONFlag(cmd, &asJSON)
	return cmd
}

func newInstallationsCommand(ctx *commandContext) *cobra.Command {
	var (
		host   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "installations [version]",
		Aliases: []string{"ls"},
		Short:   "List confirmed editor installations",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				var installations []api.Installation
				if len(args) == 1 {
					version, err := editor.ParseVersion(args[0])
					if err != nil {
						return err
					}
					installation, err := cl.Installation(cmd.Context(), string(version), host)
					if err != nil {
						return notInstalledError(err, version)
					}
					installations = []api.Installation{*installation}
				} else {
					list, err := cl.Installations(cmd.Context())
					if err != nil {
						return err
					}
					installations = list
				}
				if asJSON {
					return writeJSON(cmd, api.InstallationListResponse{Installations: installations})
				}
				out := cmd.OutOrStdout()
				if len(installations) == 0 {
					fmt.Fprintln(out, "No installations confirmed yet")
					return nil
				}
				sort.Slice(installations, func(i, j int) bool {
					if installations[i].Version != installations[j].Version {
						return installations[i].Version < installations[j].Version
					}
					return installations[i].Host < installations[j].Host
				})
				rows := make([][]string, 0, len(installations))
				for _, inst := range installations {
					rows = append(rows, []string{inst.QualifiedVersion, inst.Host, inst.Target, inst.Path, inst.ConfirmedAt})
				}
				fmt.Fprint(out, renderTable(
					[]string{"Release", "Host", "Target", "Path", "Confirmed"},
					rows,
					nil,
				))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Host platform for a single lookup (defaults to the daemon's platform)")
	addJSONFlag(cmd, &asJSON)
	return cmd
}

func newPendingCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List installs that have not been confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				dispatches, err := cl.PendingDispatches(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, api.PendingDispatchListResponse{Dispatches: dispatches})
				}
				out := cmd.OutOrStdout()
				if len(dispatches) == 0 {
					fmt.Fprintln(out, "No pending installs")
					return nil
				}
				rows := make([][]string, 0, len(dispatches))
				for _, d := range dispatches {
					pid := "-"
					if d.PID > 0 {
						pid = strconv.Itoa(d.PID)
					}
					rows = append(rows, []string{d.QualifiedVersion, d.Host, d.TokenKind, pid, d.Detail, d.IssuedAt})
				}
				fmt.Fprint(out, renderTable(
					[]string{"Release", "Host", "Kind", "PID", "Installer", "Issued"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	addJSONFlag(cmd, &asJSON)
	return cmd
}

func notInstalledError(err error, version editor.SupportedVersion) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s has not been confirmed as installed", version.QualifiedVersion())
	}
	return err
}
