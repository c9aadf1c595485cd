package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/aurora/shader"
)

func newShaderCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "shader",
		Short: "Print the aurora shader program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var data []byte
			switch format {
			case "wgsl":
				data = []byte(shader.Source())
			case "spirv", "spv":
				spirv, err := shader.CompileSPIRV()
				if err != nil {
					return err
				}
				data = spirv
			default:
				return fmt.Errorf("unknown format %q (want wgsl or spirv)", format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				return os.WriteFile(out, data, 0o644)
			}
			_, err := w.Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "wgsl", "output format: wgsl or spirv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
