// Package priors provides the PriorSource collaborator implementations
// consumed by the pipeline controller's dataFetch stage (SPEC_FULL.md §5).
// The embedding pattern mirrors the teacher's internal/config/elasticity.go
// (//go:embed + json.Unmarshal into a package-level config struct).
package priors

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/model"
)

//go:embed industry_defaults.json
var defaultsJSON []byte

// jsonPriors mirrors model.Priors' JSON shape for decoding the embedded file.
type jsonInterval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

type jsonPriors struct {
	CPM jsonInterval `json:"cpm"`
	CTR jsonInterval `json:"ctr"`
	CVR jsonInterval `json:"cvr"`
}

// Defaults decodes the embedded industry-benchmark priors. It panics on a
// decode failure since the embedded file ships with the binary and a
// failure here means the build itself is broken, not a runtime condition.
func Defaults() model.ChannelPriors {
	var raw map[string]jsonPriors
	if err := json.Unmarshal(defaultsJSON, &raw); err != nil {
		panic(fmt.Sprintf("priors: embedded industry_defaults.json is invalid: %v", err))
	}
	return channel.NewMap(func(c channel.Channel) model.Priors {
		p := raw[string(c)]
		return model.Priors{
			CPM: model.Interval{Lo: p.CPM.Lo, Hi: p.CPM.Hi},
			CTR: model.Interval{Lo: p.CTR.Lo, Hi: p.CTR.Hi},
			CVR: model.Interval{Lo: p.CVR.Lo, Hi: p.CVR.Hi},
		}
	})
}
