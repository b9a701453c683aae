package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/k3a/html2text"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/marigold/pkg/forms"
	"github.com/Ramsey-B/marigold/pkg/httpclient"
)

func searchCommand(a *app) *cobra.Command {
	var (
		baseURL string
		fields  map[string]string
		raw     bool
	)

	names := make([]string, 0, len(forms.All))
	for _, f := range forms.All {
		names = append(names, f.Name)
	}

	cmd := &cobra.Command{
		Use:       "search <" + strings.Join(names, "|") + ">",
		Short:     "Submit a search form to a running server and print the results",
		Example:   "  marigold search matchmaking --set age_range=26-35 --set children=3+",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, ok := forms.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown form %q", args[0])
			}

			client := httpclient.NewClient(httpclient.DefaultConfig(), a.logger)
			if baseURL == "" {
				baseURL = fmt.Sprintf("http://localhost:%d", a.cfg.Port)
			}
			h := forms.NewHandler(form, baseURL, client, &forms.Region{}, a.logger)

			err := h.Submit(cmd.Context(), fields)
			if errors.Is(err, forms.ErrValidation) {
				return errors.New(form.ValidationMessage)
			}

			out := h.Region().Content()
			if !raw {
				out = html2text.HTML2Text(out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "server base URL (default http://localhost:$PORT)")
	cmd.Flags().StringToStringVar(&fields, "set", nil, "form field as name=value, repeatable")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the HTML fragment instead of text")
	return cmd
}
