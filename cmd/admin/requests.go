package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ogurasousui/resource-allocation-admin/internal/core/request"
)

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Inspect and resolve resource requests",
	}

	var projectID string
	active := &cobra.Command{
		Use:   "active",
		Short: "List requests, hiding approved ones older than 7 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := depsFrom(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPROJECT\tROLE\tQTY\tSTATUS\tREQUESTED BY\tCREATED")

			token := ""
			for {
				res, err := d.requests.ListActiveRequests(cmd.Context(), request.ListActiveRequestsInput{
					ProjectID: projectID,
					PageToken: token,
				})
				if err != nil {
					return err
				}
				for _, r := range res.Requests {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
						r.ID, r.ProjectName, r.Role, r.Quantity, r.Status, r.RequestedBy, r.CreatedAt.Format("2006-01-02"))
				}
				if res.NextPageToken == "" {
					break
				}
				token = res.NextPageToken
			}
			return w.Flush()
		},
	}
	active.Flags().StringVar(&projectID, "project", "", "filter by project id")

	resolve := &cobra.Command{
		Use:   "resolve <id> <Approved|Rejected>",
		Short: "Approve or reject a pending request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := depsFrom(cmd)
			if err != nil {
				return err
			}

			res, err := d.requests.Resolve(cmd.Context(), request.ResolveInput{
				ID:       args[0],
				Decision: request.Status(args[1]),
			})
			if err != nil {
				return err
			}
			if !res.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "request %s is already %s\n", res.Request.ID, res.Request.Status)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "request %s is now %s\n", res.Request.ID, res.Request.Status)
			return nil
		},
	}

	cmd.AddCommand(active, resolve)
	return cmd
}
