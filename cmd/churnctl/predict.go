package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/service"
	"github.com/bibbank/churn-service/internal/domain/valueobject"
)

const (
	answerFlag  = "answer"
	profileFlag = "profile"
	outputFlag  = "output"
)

func predictCmd() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Predict churn risk for one customer",
		UsageText: `churnctl predict --profile customer.yaml
   churnctl predict --profile customer.yaml --answer Contract="Two year"
   churnctl --transport grpc predict --profile customer.yaml`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  answerFlag,
				Usage: "Answer as Field=Value, e.g. Contract=\"Two year\" (can be specified multiple times)",
			},
			&cli.StringFlag{
				Name:  profileFlag,
				Usage: "YAML file mapping field names to answers",
			},
			&cli.StringFlag{
				Name:  outputFlag,
				Usage: "Output format [text, json, yaml]",
				Value: formatText,
			},
		},
		Action: cmdPredict,
	}
}

func cmdPredict(ctx context.Context, cmd *cli.Command) error {
	answers, err := collectAnswers(cmd.String(profileFlag), cmd.StringSlice(answerFlag))
	if err != nil {
		return err
	}

	fields, err := service.NewFeatureEncoder().EncodeAnswers(answers)
	if err != nil {
		return err
	}

	c, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := withTimeout(ctx, cmd)
	defer cancel()

	resp, err := c.Predict(ctx, fields)
	if err != nil {
		return fmt.Errorf("failed to make a prediction: %w", err)
	}

	w := cmd.Root().Writer
	if format := cmd.String(outputFlag); format != formatText {
		return encode(w, format, resp)
	}
	return renderPrediction(w, resp)
}

// collectAnswers merges the profile with explicit answers; explicit answers win.
func collectAnswers(profilePath string, pairs []string) (map[string]string, error) {
	answers := make(map[string]string)

	if profilePath != "" {
		data, err := os.ReadFile(profilePath)
		if err != nil {
			return nil, fmt.Errorf("reading profile: %w", err)
		}
		var profile map[string]any
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parsing profile %s: %w", profilePath, err)
		}
		for k, v := range profile {
			if v == nil {
				answers[k] = ""
				continue
			}
			answers[k] = fmt.Sprint(v)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid answer %q, expected Field=Value", pair)
		}
		answers[strings.TrimSpace(key)] = value
	}

	return answers, nil
}

func renderPrediction(w io.Writer, resp dto.PredictionResponse) error {
	label, err := valueobject.RiskLabelFromString(resp.Prediction)
	if err != nil {
		return err
	}
	severity, err := valueobject.SeverityFromLabel(label)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "Risk Probability: %.2f%%\nChurn Prediction: %s\n[%s] %s\n",
		resp.RiskProbability*100, label, severity, severity.Message())
	return err
}
