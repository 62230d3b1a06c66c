package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateActionConfig validates an action's config map against the JSON
// schema published by its factory. Factories without a schema accept any
// config.
func (r *Registry) ValidateActionConfig(actionType string, config map[string]any) error {
	factory, ok := r.actionFactories[actionType]
	if !ok {
		return fmt.Errorf("action type '%s' not registered", actionType)
	}

	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("failed to validate config for action '%s': %w", actionType, err)
	}

	if !result.Valid() {
		detail := ""
		for _, desc := range result.Errors() {
			if detail != "" {
				detail += "; "
			}

			detail += desc.String()
		}

		return fmt.Errorf("invalid config for action '%s': %s", actionType, detail)
	}

	return nil
}
