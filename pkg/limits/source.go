package limits

import (
	"context"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// inMemSource implements the Source interface using an in-memory table.
type inMemSource struct {
	table Table
}

// NewInMemSource returns an in-memory Source holding a deep copy of the given table.
func NewInMemSource(table Table) Source {
	return &inMemSource{table: cloneTable(table)}
}

// Load returns a copy of the table.
func (s *inMemSource) Load(ctx context.Context) (Table, error) {
	return cloneTable(s.table), nil
}

// yamlSource decodes a policy table document:
//
//	plans:
//	  Free:
//	    ai_enhancement: 5
//	  Ultimate:
//	    ai_enhancement: -1
type yamlSource struct {
	r io.Reader
}

type yamlDocument struct {
	Plans map[string]map[string]int64 `yaml:"plans"`
}

// NewYAMLSource returns a Source reading a YAML policy document from r.
// The reader is consumed on the first Load.
func NewYAMLSource(r io.Reader) Source {
	return &yamlSource{r: r}
}

// Load decodes the document and normalises plan and feature names.
func (s *yamlSource) Load(ctx context.Context) (Table, error) {
	if s.r == nil {
		return nil, errors.Join(ErrFailedToParsePolicyTable, errors.New("nil reader"))
	}

	var doc yamlDocument
	if err := yaml.NewDecoder(s.r).Decode(&doc); err != nil {
		return nil, errors.Join(ErrFailedToParsePolicyTable, err)
	}

	table := make(Table, len(doc.Plans))
	for rawPlan, quotas := range doc.Plans {
		plan, err := ParsePlan(rawPlan)
		if err != nil {
			return nil, errors.Join(ErrInvalidPolicyTable, err)
		}
		table[plan] = make(map[Feature]int64, len(quotas))
		for rawFeature, limit := range quotas {
			feature, err := ParseFeature(rawFeature)
			if err != nil {
				return nil, errors.Join(ErrInvalidPolicyTable, err)
			}
			table[plan][feature] = limit
		}
	}
	return table, nil
}
