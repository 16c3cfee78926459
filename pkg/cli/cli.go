package cli

import (
	"github.com/fabrikplatform/fabrik/pkg/closenicely"
	"github.com/fabrikplatform/fabrik/pkg/config"
	"github.com/fabrikplatform/fabrik/pkg/construct"
	"github.com/fabrikplatform/fabrik/pkg/infra/bicep"
	kio "github.com/fabrikplatform/fabrik/pkg/io"
	"github.com/fabrikplatform/fabrik/pkg/logging"
	"github.com/fabrikplatform/fabrik/pkg/provider/azure"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ParametersFileName is the deployment parameters manifest written next to
// the generated templates. The provisioning tool substitutes the ${...}
// placeholders from its environment before submitting the deployment.
const ParametersFileName = "main.parameters.json"

const parametersFile = `{
  "$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#",
  "contentVersion": "1.0.0.0",
  "parameters": {
    "environmentName": {
      "value": "${AZURE_ENV_NAME}"
    },
    "location": {
      "value": "${AZURE_LOCATION}"
    },
    "principalId": {
      "value": "${AZURE_PRINCIPAL_ID}"
    }
  }
}
`

var generateCfg struct {
	configFile string
	outputDir  string
	verbose    bool
	jsonLog    bool
}

func AddCli(root *cobra.Command) error {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate deployment templates for a project definition",
		RunE:  Generate,
	}
	flags := generateCmd.Flags()
	flags.StringVarP(&generateCfg.configFile, "config", "c", "fabrik.yaml", "Project definition to use")
	flags.StringVarP(&generateCfg.outputDir, "output-dir", "o", "", "Output directory to use")
	flags.BoolVarP(&generateCfg.verbose, "verbose", "v", false, "Verbose flag")
	flags.BoolVar(&generateCfg.jsonLog, "json-log", false, "Output logs in JSON format.")
	root.AddCommand(generateCmd)
	return nil
}

func Generate(cmd *cobra.Command, args []string) error {
	z, err := logging.NewLogger(logging.LogOpts{Verbose: generateCfg.verbose, JsonLog: generateCfg.jsonLog})
	if err != nil {
		return err
	}
	defer closenicely.FuncOrDebug(z.Sync)
	zap.ReplaceGlobals(z)

	cfg, err := config.ReadConfig(generateCfg.configFile)
	if err != nil {
		return errors.Wrapf(err, "could not read project definition %s", generateCfg.configFile)
	}

	outputDir := generateCfg.outputDir
	if outputDir == "" {
		outputDir = cfg.OutDir
	}
	if outputDir == "" {
		outputDir = "infra"
	}

	files, exports, err := Compile(cfg)
	if err != nil {
		return err
	}
	if err := kio.OutputTo(files, outputDir); err != nil {
		return err
	}
	zap.L().Sugar().Debugf("wrote %d files to %s", len(files), outputDir)

	color.New(color.FgGreen, color.Bold).Printf("Generated %s, %s and %s in %s\n",
		bicep.EntryFileName, bicep.NestedFileName, ParametersFileName, outputDir)
	if len(exports) > 0 {
		color.New(color.FgHiBlack).Println("Exported environment variables:")
		for _, e := range exports {
			color.New(color.FgCyan).Printf("  %s\n", e.EnvName)
		}
	}
	return nil
}

// Compile assembles the resource graph for cfg and renders the deployment
// files, without touching the filesystem.
func Compile(cfg config.Project) ([]kio.File, []bicep.OutputExport, error) {
	d, err := azure.BuildProject(cfg)
	if err != nil {
		return nil, nil, err
	}

	c := bicep.NewCompiler(d.Arena, d.Group)
	var backfillErr error
	if d.Site != nil {
		c.Hosting = d.Site.App
		c.BackfillSettings = func(settings []construct.Pair) {
			backfillErr = azure.AddAppSettings(d.Arena, d.Site.Settings, settings...)
		}
	}

	files, exports, err := c.Compile()
	if err != nil {
		return nil, nil, err
	}
	if backfillErr != nil {
		return nil, nil, backfillErr
	}

	files = append(files, &kio.RawFile{FPath: ParametersFileName, Content: []byte(parametersFile)})
	return files, exports, nil
}
