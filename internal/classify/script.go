package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ScriptClassifier runs a local inference script once per call:
//
//	<interpreter> <script> cv <image path>   -> {"cv_label", "cv_score", "is_relevant"}
//	<interpreter> <script> nlp <lang>        -> {"nlp_category", ...}, text on stdin
//
// The result is the JSON object printed on stdout.
type ScriptClassifier struct {
	interpreter string
	script      string
	timeout     time.Duration
}

// NewScriptClassifier creates a classifier for script run by interpreter (default "python")
func NewScriptClassifier(interpreter, script string) *ScriptClassifier {
	if interpreter == "" {
		interpreter = "python"
	}
	return &ScriptClassifier{interpreter: interpreter, script: script, timeout: 2 * time.Minute}
}

// ClassifyImage implements Classifier
func (s *ScriptClassifier) ClassifyImage(ctx context.Context, img ImageInput) (CVResult, error) {
	var res CVResult
	if err := s.run(ctx, nil, &res, "cv", img.Path); err != nil {
		return CVResult{}, err
	}
	if res.Label == "" {
		return CVResult{}, fmt.Errorf("cv script returned no label")
	}
	return res, nil
}

// AnalyzeText implements Classifier
func (s *ScriptClassifier) AnalyzeText(ctx context.Context, text, lang string) (NLPResult, error) {
	var res NLPResult
	if err := s.run(ctx, strings.NewReader(text), &res, "nlp", lang); err != nil {
		return NLPResult{}, err
	}
	if res.Category == "" {
		return NLPResult{}, fmt.Errorf("nlp script returned no category")
	}
	return res, nil
}

func (s *ScriptClassifier) run(ctx context.Context, stdin *strings.Reader, out interface{}, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.interpreter, append([]string{s.script}, args...)...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s worker failed: %w, output: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), out); err != nil {
		return fmt.Errorf("%s worker printed invalid JSON: %w", args[0], err)
	}
	return nil
}
