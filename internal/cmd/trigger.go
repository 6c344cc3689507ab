package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alertgate/alertgate/internal/core"
	"github.com/alertgate/alertgate/internal/server/handlers"
)

var (
	triggerName        string
	triggerStatus      string
	triggerDescription string
	triggerPod         string
	triggerNamespace   string
	triggerKind        string
	triggerOperation   string
	triggerLabels      []string
	triggerJSON        bool
)

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Send an alert event to a running server",
	Long: `Send an alert event to a running server and print the per-trigger
gate decisions.

Example:
  alertgate trigger --name KubePodCrashLooping --pod payments-7d9f --namespace prod`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(triggerName)
		if name == "" {
			return fmt.Errorf("--name is required")
		}

		if _, ok := core.ParseOperationType(triggerOperation); !ok {
			return fmt.Errorf("--operation must be create, update, or delete")
		}

		labels, err := parseLabels(triggerLabels)
		if err != nil {
			return err
		}

		request := handlers.TriggerRequest{
			Name:        name,
			Status:      strings.TrimSpace(triggerStatus),
			Description: strings.TrimSpace(triggerDescription),
			Pod:         strings.TrimSpace(triggerPod),
			Namespace:   strings.TrimSpace(triggerNamespace),
			Kind:        strings.TrimSpace(triggerKind),
			Operation:   strings.TrimSpace(triggerOperation),
			Labels:      labels,
		}

		var response handlers.TriggerResponse
		if err := gatesPost(cmd.Context(), "/api/trigger", request, &response); err != nil {
			return err
		}

		if triggerJSON {
			payload, err := json.MarshalIndent(response, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(payload))
			return nil
		}

		cmd.Printf("Event %s\n", response.EventID)
		if len(response.Evaluations) == 0 {
			cmd.Println("No triggers matched")
			return nil
		}
		for _, eval := range response.Evaluations {
			cmd.Printf("  %s -> %s (target %s, throttle %s)\n",
				eval.Trigger, eval.Decision, eval.Target, eval.Throttle)
		}
		return nil
	},
}

func parseLabels(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("labels must be key=value, got %q", pair)
		}
		labels[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return labels, nil
}

func init() {
	rootCmd.AddCommand(triggerCmd)

	triggerCmd.Flags().StringVar(&gatesServerURL, "server", "http://localhost:8080", "Base URL of the running server")
	triggerCmd.Flags().StringVar(&triggerName, "name", "", "Alert name (required)")
	triggerCmd.Flags().StringVar(&triggerStatus, "status", "firing", "Alert status")
	triggerCmd.Flags().StringVar(&triggerDescription, "description", "", "Alert description")
	triggerCmd.Flags().StringVar(&triggerPod, "pod", "", "Pod name")
	triggerCmd.Flags().StringVar(&triggerNamespace, "namespace", "", "Namespace")
	triggerCmd.Flags().StringVar(&triggerKind, "kind", "", "Resource kind")
	triggerCmd.Flags().StringVar(&triggerOperation, "operation", "", "Change operation: create|update|delete")
	triggerCmd.Flags().StringSliceVar(&triggerLabels, "label", nil, "Event label as key=value (repeatable)")
	triggerCmd.Flags().BoolVar(&triggerJSON, "json", false, "Print the raw JSON response")
}
