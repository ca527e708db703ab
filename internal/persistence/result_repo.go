package persistence

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/felixbrock/patentace/internal/domain"
)

// ResultRepo appends adaptation results to a CSV file, one record per
// sample outcome.
type ResultRepo struct {
	Path string
}

func (r ResultRepo) Append(result domain.AdaptationResult) error {
	file, err := os.OpenFile(r.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}

	defer func() {
		err = file.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	writer := csv.NewWriter(file)

	defer func() {
		writer.Flush()
		err = writer.Error()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	record := []string{
		result.Id,
		result.RunId,
		strconv.Itoa(result.Epoch),
		result.GeneratorOutput.FinalAnswer,
		result.Sample.GroundTruth,
		strconv.FormatFloat(result.EnvironmentResult.Metrics["accuracy"], 'f', -1, 64),
		strconv.FormatBool(result.Skipped),
	}

	return writer.Write(record)
}

func toResult(record []string) domain.AdaptationResult {
	epoch, _ := strconv.Atoi(record[2])
	accuracy, _ := strconv.ParseFloat(record[5], 64)
	skipped, _ := strconv.ParseBool(record[6])

	return domain.AdaptationResult{
		Id:    record[0],
		RunId: record[1],
		Epoch: epoch,
		GeneratorOutput: domain.GeneratorOutput{
			FinalAnswer: record[3],
		},
		Sample: domain.Sample{GroundTruth: record[4]},
		EnvironmentResult: domain.EnvironmentResult{
			Metrics: map[string]float64{"accuracy": accuracy},
		},
		Skipped: skipped,
	}
}

// Read returns the recorded results for a run id, in file order.
func (r ResultRepo) Read(runId string) ([]domain.AdaptationResult, error) {
	file, err := os.Open(r.Path)
	if err != nil {
		return nil, err
	}

	defer func() {
		err = file.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	reader := csv.NewReader(file)

	var results []domain.AdaptationResult
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		if record[1] == runId {
			results = append(results, toResult(record))
		}
	}

	return results, nil
}
