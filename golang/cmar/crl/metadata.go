package crl

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

//ColumnMetadata names a column and, optionally, its value codes. The codes of a
//categorical column come from its text values, other columns hold integers.
type ColumnMetadata struct {
	Name        string         `yaml:"name"`
	Categorical bool           `yaml:"categorical,omitempty"`
	Values      map[int]string `yaml:"values,omitempty"`
}

//Metadata describes the columns of a dataset. It prints rules and encodes further
//datasets with the codes of the training set.
type Metadata struct {
	Label   string           `yaml:"label,omitempty"`
	Columns []ColumnMetadata `yaml:"columns"`
}

//valueCodes inverts the value names of the categorical columns. Other columns get a
//nil map.
func (meta Metadata) valueCodes() []map[string]int {
	if len(meta.Columns) == 0 {
		return nil
	}
	codes := make([]map[string]int, len(meta.Columns))
	for col, column := range meta.Columns {
		if !column.Categorical {
			continue
		}
		codes[col] = make(map[string]int, len(column.Values))
		for code, value := range column.Values {
			codes[col][value] = code
		}
	}
	return codes
}

//ReadMetadata parses a yaml metadata file.
func ReadMetadata(fileName string) (Metadata, error) {
	var meta Metadata
	content, err := os.ReadFile(fileName)
	if err != nil {
		return meta, errors.Wrap(err, "read metadata")
	}
	if err := yaml.Unmarshal(content, &meta); err != nil {
		return meta, errors.Wrapf(err, "parse metadata %s", fileName)
	}
	return meta, nil
}

//WriteMetadata stores the metadata as yaml.
func WriteMetadata(fileName string, meta Metadata) error {
	content, err := yaml.Marshal(meta)
	if err != nil {
		return errors.Wrap(err, "encode metadata")
	}
	return errors.Wrap(os.WriteFile(fileName, content, 0o644), "write metadata")
}

//DescribeAttribute prints an attribute with the names known for it.
func (meta Metadata) DescribeAttribute(attr Attribute) string {
	if attr.Column < 0 || attr.Column >= len(meta.Columns) {
		return attr.String()
	}
	column := meta.Columns[attr.Column]
	name := column.Name
	if name == "" {
		name = fmt.Sprintf("c%d", attr.Column)
	}
	if value, ok := column.Values[attr.Value]; ok {
		return name + "=" + value
	}
	return fmt.Sprintf("%s=%d", name, attr.Value)
}

//DescribeConditions joins the described attributes with commas.
func (meta Metadata) DescribeConditions(conditions []Attribute) string {
	parts := make([]string, len(conditions))
	for ind, attr := range conditions {
		parts[ind] = meta.DescribeAttribute(attr)
	}
	return strings.Join(parts, ", ")
}

//DescribeRule prints a rule as "conditions -> label".
func (meta Metadata) DescribeRule(rule Rule) string {
	return fmt.Sprintf("%s -> %s", meta.DescribeConditions(rule.Conditions), rule.Label)
}
