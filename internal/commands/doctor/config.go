package doctor

import (
	"context"
	"errors"

	"github.com/hay-kot/autoid/internal/core/config"
	"github.com/hay-kot/criterio"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	config *config.Config
}

// NewConfigCheck creates a new configuration check.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{config: cfg}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config loaded",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	err := c.config.Validate()
	warnings := c.config.Warnings()

	if err == nil && len(warnings) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config valid",
			Status: StatusPass,
			Detail: "source " + c.config.Source,
		})
		return result
	}

	if err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				label := fe.Field
				if label == "" {
					label = "validation"
				}
				result.Items = append(result.Items, CheckItem{
					Label:  label,
					Status: StatusFail,
					Detail: fe.Err.Error(),
				})
			}
		} else {
			result.Items = append(result.Items, CheckItem{
				Label:  "validation",
				Status: StatusFail,
				Detail: err.Error(),
			})
		}
	}

	for _, w := range warnings {
		label := w.Category
		if w.Item != "" {
			label += " (" + w.Item + ")"
		}
		result.Items = append(result.Items, CheckItem{
			Label:  label,
			Status: StatusWarn,
			Detail: w.Message,
		})
	}

	return result
}
