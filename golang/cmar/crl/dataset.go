package crl

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

//UnseenValue is the code of a cell whose value never occurred in the training set.
//No attribute of a mined rule carries it.
const UnseenValue = math.MinInt32

//LoadRows reads a dataset choosing the reader by extension: .csv and .data are comma
//separated text, .npy a numpy matrix, .db, .sqlite and .sqlite3 an SQLite database
//read from table. The label is always the last column. The returned metadata holds
//the codes given to text columns.
func LoadRows(fileName, table string) ([]Row, Metadata, error) {
	return loadRows(fileName, table, nil)
}

//LoadRowsWithMetadata reads a dataset like LoadRows but encodes it with the codes of
//meta, usually the metadata LoadRows returned for the training set.
func LoadRowsWithMetadata(fileName, table string, meta Metadata) ([]Row, error) {
	rows, _, err := loadRows(fileName, table, &meta)
	return rows, err
}

func loadRows(fileName, table string, encoding *Metadata) ([]Row, Metadata, error) {
	var (
		records [][]string
		names   []string
		rows    []Row
		meta    Metadata
		err     error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".data":
		records, names, err = readCSVFileRecords(fileName, false)
	case ".npy":
		rows, err = ReadNpyRows(fileName)
	case ".db", ".sqlite", ".sqlite3":
		records, names, err = readSQLiteRecords(fileName, table)
	default:
		return nil, Metadata{}, errors.Wrap(ErrUnknownFormat, fileName)
	}
	if err != nil {
		return nil, Metadata{}, err
	}

	switch {
	case records != nil && encoding == nil:
		rows, meta, err = encodeRecords(records, names)
	case records != nil:
		meta = *encoding
		rows, err = encodeWithMetadata(records, meta)
	case encoding != nil && len(rows) > 0 && len(encoding.Columns) > 0 && len(rows[0].Values) != len(encoding.Columns):
		err = errors.Errorf("%s has %d attribute columns, the training set %d", fileName, len(rows[0].Values), len(encoding.Columns))
	}
	if err != nil {
		return nil, Metadata{}, errors.Wrap(err, fileName)
	}
	if len(rows) == 0 {
		return nil, Metadata{}, errors.Wrap(ErrEmptyDataset, fileName)
	}
	log.WithFields(log.Fields{"file": fileName, "rows": len(rows)}).Info("dataset loaded")
	return rows, meta, nil
}

func readCSVFileRecords(fileName string, header bool) ([][]string, []string, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open csv")
	}
	defer func() { _ = f.Close() }()
	return readCSVRecords(f, header)
}

//ReadCSVRows reads comma separated records, the last field being the label.
//Empty lines are skipped. With header set the first record names the columns.
func ReadCSVRows(src io.Reader, header bool) ([]Row, Metadata, error) {
	records, names, err := readCSVRecords(src, header)
	if err != nil {
		return nil, Metadata{}, err
	}
	return encodeRecords(records, names)
}

//ReadCSVRowsWithMetadata reads records like ReadCSVRows and encodes them with the
//codes of meta instead of deriving new ones.
func ReadCSVRowsWithMetadata(src io.Reader, header bool, meta Metadata) ([]Row, error) {
	records, _, err := readCSVRecords(src, header)
	if err != nil {
		return nil, err
	}
	return encodeWithMetadata(records, meta)
}

func readCSVRecords(src io.Reader, header bool) ([][]string, []string, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "read csv")
	}

	var names []string
	if header && len(records) > 0 {
		names, records = records[0], records[1:]
	}
	return records, names, nil
}

//recordWidth is the number of attribute columns shared by all records.
func recordWidth(records [][]string) (int, error) {
	width := len(records[0]) - 1
	if width < 0 {
		return 0, errors.New("records without a label column")
	}
	for ind, record := range records {
		if len(record) != width+1 {
			return 0, errors.Errorf("record %d has %d fields, want %d", ind, len(record), width+1)
		}
	}
	return width, nil
}

//encodeRecords turns text records into rows. A column whose cells all parse as integers
//keeps them as codes, any other column is categorical and encoded by order of first
//appearance.
func encodeRecords(records [][]string, names []string) ([]Row, Metadata, error) {
	if len(records) == 0 {
		return nil, Metadata{}, nil
	}
	width, err := recordWidth(records)
	if err != nil {
		return nil, Metadata{}, err
	}

	meta := Metadata{Columns: make([]ColumnMetadata, width)}
	if len(names) == width+1 {
		meta.Label = names[width]
	}
	for col := 0; col < width; col++ {
		column := &meta.Columns[col]
		column.Name = fmt.Sprintf("c%d", col)
		if len(names) == width+1 {
			column.Name = names[col]
		}
		for _, record := range records {
			if _, err := strconv.Atoi(strings.TrimSpace(record[col])); err != nil {
				column.Categorical = true
				break
			}
		}
		if !column.Categorical {
			continue
		}
		column.Values = make(map[int]string)
		seen := make(map[string]bool)
		for _, record := range records {
			cell := strings.TrimSpace(record[col])
			if !seen[cell] {
				seen[cell] = true
				column.Values[len(seen)-1] = cell
			}
		}
	}

	rows, err := encodeWithMetadata(records, meta)
	if err != nil {
		return nil, Metadata{}, err
	}
	return rows, meta, nil
}

//encodeWithMetadata turns text records into rows using the codes of meta. Categorical
//columns look their cells up in the value names, the others parse integers. Cells
//that fit neither get UnseenValue. Metadata without columns treats every column as
//integer codes.
func encodeWithMetadata(records [][]string, meta Metadata) ([]Row, error) {
	if len(records) == 0 {
		return nil, nil
	}
	width, err := recordWidth(records)
	if err != nil {
		return nil, err
	}
	if len(meta.Columns) > 0 && len(meta.Columns) != width {
		return nil, errors.Errorf("records have %d attribute columns, metadata describes %d", width, len(meta.Columns))
	}

	codes := meta.valueCodes()
	unseen := 0
	rows := make([]Row, len(records))
	for ind, record := range records {
		row := Row{Values: make([]int, width), Label: strings.TrimSpace(record[width])}
		for col := 0; col < width; col++ {
			cell := strings.TrimSpace(record[col])
			code, ok := 0, false
			if codes != nil && codes[col] != nil {
				code, ok = codes[col][cell]
			} else {
				var err error
				code, err = strconv.Atoi(cell)
				ok = err == nil
			}
			if !ok {
				code = UnseenValue
				unseen++
			}
			row.Values[col] = code
		}
		rows[ind] = row
	}
	if unseen > 0 {
		log.WithField("cells", unseen).Warn("values unknown to the training set match no rule")
	}
	return rows, nil
}


//ReadNpyRows reads a float matrix whose last column holds integer class labels.
func ReadNpyRows(fileName string) ([]Row, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "open npy")
	}
	defer func() { _ = f.Close() }()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrap(err, "npy header")
	}
	denseMat := &mat.Dense{}
	if err := r.Read(denseMat); err != nil {
		return nil, errors.Wrap(err, "npy data")
	}
	return RowsFromDense(denseMat), nil
}

//RowsFromDense converts a matrix into rows, rounding cells to integer codes.
//The last column is the label.
func RowsFromDense(denseMat *mat.Dense) []Row {
	h, w := denseMat.Dims()
	if w == 0 {
		return nil
	}
	rows := make([]Row, h)
	for p := 0; p < h; p++ {
		values := make([]int, w-1)
		for q := 0; q < w-1; q++ {
			values[q] = int(math.Round(denseMat.At(p, q)))
		}
		rows[p] = Row{Values: values, Label: strconv.Itoa(int(math.Round(denseMat.At(p, w-1))))}
	}
	return rows
}

//ReadSQLiteRows reads every row of a table. Columns are taken in table order and
//the last one is the label.
func ReadSQLiteRows(fileName, table string) ([]Row, Metadata, error) {
	records, names, err := readSQLiteRecords(fileName, table)
	if err != nil {
		return nil, Metadata{}, err
	}
	return encodeRecords(records, names)
}

func readSQLiteRecords(fileName, table string) ([][]string, []string, error) {
	if table == "" {
		return nil, nil, errors.New("sqlite source needs a table name")
	}
	db, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open sqlite")
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf(`SELECT * FROM "%s"`, strings.ReplaceAll(table, `"`, `""`))
	result, err := db.Query(query)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "query table %s", table)
	}
	defer func() { _ = result.Close() }()

	names, err := result.Columns()
	if err != nil {
		return nil, nil, errors.Wrap(err, "table columns")
	}

	var records [][]string
	cells := make([]interface{}, len(names))
	pointers := make([]interface{}, len(names))
	for ind := range cells {
		pointers[ind] = &cells[ind]
	}
	for result.Next() {
		if err := result.Scan(pointers...); err != nil {
			return nil, nil, errors.Wrap(err, "scan row")
		}
		record := make([]string, len(cells))
		for ind, cell := range cells {
			record[ind] = sqlCellString(cell)
		}
		records = append(records, record)
	}
	if err := result.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "iterate rows")
	}
	return records, names, nil
}

func sqlCellString(cell interface{}) string {
	switch val := cell.(type) {
	case nil:
		return "?"
	case []byte:
		return string(val)
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

//WritePredictions stores predicted labels. A .npy output needs integer labels and
//holds a column vector, anything else is written as one label per line.
func WritePredictions(fileName string, predictions []string) error {
	dst, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "create predictions")
	}
	defer func() { _ = dst.Close() }()

	if strings.ToLower(filepath.Ext(fileName)) == ".npy" {
		column := mat.NewDense(len(predictions), 1, nil)
		for ind, label := range predictions {
			code, err := strconv.Atoi(label)
			if err != nil {
				return errors.Wrapf(err, "label %q of row %d is not an integer", label, ind)
			}
			column.Set(ind, 0, float64(code))
		}
		return errors.Wrap(npyio.Write(dst, column), "write npy")
	}

	writer := csv.NewWriter(dst)
	for _, label := range predictions {
		if err := writer.Write([]string{label}); err != nil {
			return errors.Wrap(err, "write csv")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "flush csv")
}
