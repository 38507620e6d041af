// Package gradient implements spec.md §4.3: finite-difference gradient
// descent with constraint projection over the forward model's deterministic
// objective.
package gradient

import (
	"context"
	"fmt"
	"math"

	"budget-allocator-api/internal/core/channel"
	"budget-allocator-api/internal/core/forwardmodel"
	"budget-allocator-api/internal/core/model"
	"budget-allocator-api/internal/core/montecarlo"
)

// Result is the Gradient Optimizer's output (§4.3 Termination reporting).
type Result struct {
	Algorithm     model.AlgorithmResult
	Iterations    int
	Converged     bool
	GradientNorm  float64
}

// Run performs the gradient descent described in §4.3. It never fails on
// pathological inputs (§4.3 Failure semantics), but it does observe ctx: a
// cancellation is checked at the top of each iteration, letting the current
// iteration finish before Run returns ctx.Err() (spec.md §5 "the current
// stage finishes its current iteration"). progress, if non-nil, is called
// once per iteration with fractional completion.
func Run(ctx context.Context, budget float64, priors model.ChannelPriors, assumptions model.Assumptions, opts model.Options, externalReference *float64, progress model.ProgressFunc) (Result, error) {
	opts = opts.WithDefaults()
	alloc := initialize(assumptions)

	sign := 1.0
	if assumptions.Goal == model.GoalCAC {
		sign = -1.0
	}

	eta := opts.GradLearningRate
	objective := func(a model.Allocation) float64 {
		v, _ := forwardmodel.Deterministic(budget, a, priors, assumptions)
		return v
	}

	current := objective(alloc)
	var grad channel.Map[float64]
	converged := false
	iter := 0

	for ; iter < opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if progress != nil {
			progress(float64(iter)/float64(opts.MaxIterations), fmt.Sprintf("iteration %d/%d", iter, opts.MaxIterations))
		}

		grad = gradientAt(alloc, assumptions, opts.GradStep, objective, current)

		norm := l2norm(grad)
		if norm < opts.GradTolerance {
			converged = true
			break
		}

		candidate := channel.NewMap(func(c channel.Channel) float64 {
			return alloc[c] + sign*eta*grad[c]
		})
		candidate = montecarlo.Redistribute(candidate, assumptions)
		candidateValue := objective(candidate)

		improved := candidateValue > current
		if assumptions.Goal == model.GoalCAC {
			improved = candidateValue < current
		}

		if improved {
			alloc = candidate
			current = candidateValue
		} else {
			eta *= 0.9
			if eta < 1e-8 {
				break
			}
		}
	}

	gradNorm := l2norm(grad)

	confidence := 0.5
	if converged {
		confidence += 0.3
	}
	if gradNorm < 1e-4 {
		confidence += 0.1
	}
	if externalReference != nil && *externalReference != 0 {
		rel := math.Abs(current-*externalReference) / math.Abs(*externalReference)
		if rel <= 0.05 {
			confidence += 0.1
		}
	}
	confidence = model.Clamp(confidence, 0, 1)

	return Result{
		Algorithm: model.AlgorithmResult{
			Name:        "gradientDescent",
			Allocation:  model.Sanitize(alloc),
			Confidence:  confidence,
			Performance: model.SanitizeScalar(current),
		},
		Iterations:   iter,
		Converged:    converged,
		GradientNorm: model.SanitizeScalar(gradNorm),
	}, nil
}

// initialize builds the uniform-then-constrained starting point (§4.3
// Initialization).
func initialize(assumptions model.Assumptions) model.Allocation {
	n := float64(len(channel.All))
	alloc := channel.NewMap(func(c channel.Channel) float64 { return 1.0 / n })

	hasMin := false
	for _, c := range channel.All {
		if assumptions.MinFor(c) > 0 {
			alloc[c] = assumptions.MinFor(c)
			hasMin = true
		}
	}
	if !hasMin {
		return model.Normalize(alloc)
	}

	assigned := 0.0
	unconstrained := 0
	for _, c := range channel.All {
		if assumptions.MinFor(c) > 0 {
			assigned += alloc[c]
		} else {
			unconstrained++
		}
	}
	remainder := 1 - assigned
	if unconstrained > 0 && remainder > 0 {
		share := remainder / float64(unconstrained)
		for _, c := range channel.All {
			if assumptions.MinFor(c) == 0 {
				alloc[c] = share
			}
		}
	}
	return model.Normalize(montecarlo.Redistribute(alloc, assumptions))
}

// gradientAt computes the one-sided finite difference gradient at alloc
// (§4.3 Gradient estimation). A component whose perturbation would violate
// a max constraint is zeroed rather than evaluated.
func gradientAt(alloc model.Allocation, assumptions model.Assumptions, h float64, objective func(model.Allocation) float64, base float64) channel.Map[float64] {
	return channel.NewMap(func(c channel.Channel) float64 {
		if alloc[c]+h > assumptions.MaxFor(c)+1e-9 {
			return 0
		}
		perturbed := channel.NewMap(func(d channel.Channel) float64 { return alloc[d] })
		perturbed[c] += h
		perturbed = model.Normalize(perturbed)
		return (objective(perturbed) - base) / h
	})
}

func l2norm(grad channel.Map[float64]) float64 {
	if grad == nil {
		return math.Inf(1)
	}
	var sum float64
	for _, c := range channel.All {
		sum += grad[c] * grad[c]
	}
	return math.Sqrt(sum)
}
