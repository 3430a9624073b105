package csvfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jsykora/kasa/internal/database/repository"
)

func TestReadStripsTrailingDelimiters(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"date;amount;note;;;",
		"01.03.2026;-250,00;LIDL PRAHA;;;",
		"02.03.2026;100,00;income;;;",
	}, "\n")

	rows, err := Read(strings.NewReader(content), repository.CSVMapping{Delimiter: ";"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "-250,00", rows[0]["amount"])
	require.Equal(t, "LIDL PRAHA", rows[0]["note"])
}

func TestReadHeaderRowOffset(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Account statement 3/2026",
		"Generated 01.04.2026",
		"date;amount",
		"01.03.2026;-250,00",
	}, "\n")

	rows, err := Read(strings.NewReader(content), repository.CSVMapping{Delimiter: ";", HeaderRow: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "01.03.2026", rows[0]["date"])
}

func TestReadHeaderRowBeyondFile(t *testing.T) {
	t.Parallel()

	_, err := Read(strings.NewReader("a;b\n"), repository.CSVMapping{Delimiter: ";", HeaderRow: 5})
	require.ErrorContains(t, err, "header row")
}

func TestReadWindows1250(t *testing.T) {
	t.Parallel()

	plain := "Částka;Poznámka\n-250,00;Zaúčtováno\n"
	encoded, err := charmap.Windows1250.NewEncoder().String(plain)
	require.NoError(t, err)

	rows, err := Read(strings.NewReader(encoded), repository.CSVMapping{
		Delimiter: ";",
		Encoding:  "windows-1250",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "-250,00", rows[0]["Částka"])
	require.Equal(t, "Zaúčtováno", rows[0]["Poznámka"])
}

func TestReadSkipsBlankLines(t *testing.T) {
	t.Parallel()

	content := "date,amount\n01.03.2026,-1\n\n \n02.03.2026,-2\n"
	rows, err := Read(strings.NewReader(content), repository.CSVMapping{Delimiter: ","})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,amount\n01.03.2026,-1\n"), 0o644))

	rows, err := Load(path, repository.CSVMapping{Delimiter: ","})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "-1", rows[0]["amount"])
}
