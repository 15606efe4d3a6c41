package cmd

import (
	"fmt"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/internal/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mcpSetup builds a validated base config without requiring an input path,
// since MCP tool calls supply paths per request.
func mcpSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessAndValidateBase(cfg, input)
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Pulsewatch MCP server",
	Long:  `Launch an MCP server that allows AI agents to run incident analysis and schema detection via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return mcpSetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
