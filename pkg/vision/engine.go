package vision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Engine runs the pretrained lesion classifier through onnxruntime.
// The session and its fixed input/output tensors are created once at process
// start and shared across requests; Infer serializes access to them.
type Engine struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewEngine loads the ONNX model at modelPath and allocates the session.
// ONNXRUNTIME_LIB may point at the runtime shared library when it is not on
// the default search path.
func NewEngine(modelPath string) (*Engine, error) {
	if modelPath == "" {
		return nil, errors.New("vision: model path is required")
	}

	if lib := os.Getenv("ONNXRUNTIME_LIB"); lib != "" {
		ort.SetSharedLibraryPath(lib)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("vision: initialize onnx environment: %w", err)
	}

	inputShape := ort.NewShape(1, Side, Side, Channels)
	outputShape := ort.NewShape(1, int64(len(Labels)))

	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("vision: create input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("vision: create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output},
		nil)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("vision: create onnx session: %w", err)
	}

	return &Engine{
		session: session,
		input:   input,
		output:  output,
	}, nil
}

// Infer feeds the prepared tensor through the model and returns a copy of the
// per-class score vector. Scores are comparable for argmax; they are not
// required to sum to 1.
func (e *Engine) Infer(ctx context.Context, t *Tensor) ([]float32, error) {
	if t == nil || len(t.Data) != Side*Side*Channels {
		return nil, errors.New("vision: tensor has wrong shape")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.input.GetData(), t.Data)
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("vision: inference: %w", err)
	}

	out := e.output.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

// Close releases the session and tensors. Safe to call once at shutdown.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.input != nil {
		e.input.Destroy()
	}
	if e.output != nil {
		e.output.Destroy()
	}
	if e.session != nil {
		e.session.Destroy()
	}
	ort.DestroyEnvironment()
}
