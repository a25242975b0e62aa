package api

import (
	"context"
	"fmt"
	"time"

	"github.com/salehjg/tilemul/internal/device"
	"github.com/salehjg/tilemul/internal/logger"
	"github.com/salehjg/tilemul/internal/tensor"
)

// MaxOrder bounds the matrix order accepted over the API so a single
// request cannot pin the server arbitrarily long.
const MaxOrder = 4096

// Service executes multiply requests against real devices.
type Service struct {
	log logger.Logger
}

func NewService(log logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	return &Service{log: log}
}

// Multiply runs one request synchronously and returns the job record.
// Validation failures are returned as errors; device-level failures after
// validation are reported inside the job with status failed.
func (s *Service) Multiply(ctx context.Context, req MultiplyRequest) (Job, error) {
	if req.N < 1 || req.N > MaxOrder {
		return Job{}, newInvalidRequest(fmt.Sprintf("n must be in [1,%d], got %d", MaxOrder, req.N))
	}
	name, err := device.Normalize(req.Device)
	if err != nil {
		return Job{}, newInvalidRequest(err.Error())
	}

	dev, err := device.Open(name, device.Options{
		Tile:   req.Tile,
		Lanes:  req.Lanes,
		Logger: s.log,
	})
	if err != nil {
		return Job{}, newInvalidRequest(err.Error())
	}
	defer func() { _ = device.Close(dev) }()

	A := tensor.NewMat(req.N, req.N)
	B := tensor.NewMat(req.N, req.N)
	if req.Seed != 0 {
		tensor.FillRand(&A, req.Seed)
		tensor.FillRand(&B, req.Seed+1)
	} else {
		tensor.FillModSum(&A)
		tensor.FillModDiff(&B)
	}
	C := tensor.NewMat(req.N, req.N)

	job := Job{
		Object:    "job",
		N:         req.N,
		Tile:      req.Tile,
		Lanes:     req.Lanes,
		Device:    dev.Name(),
		CreatedAt: time.Now().Unix(),
	}

	start := time.Now()
	runErr := dev.Multiply(ctx, &C, &A, &B)
	elapsed := time.Since(start).Seconds()
	if runErr != nil {
		job.Status = statusFailed
		job.Error = runErr.Error()
		return job, nil
	}

	job.Status = statusCompleted
	job.Seconds = elapsed
	job.GFLOPS = 2 * float64(req.N) * float64(req.N) * float64(req.N) / elapsed / 1e9
	job.Checksum = tensor.Checksum(&C)

	if req.Verify {
		tol := float32(req.Tol)
		if tol <= 0 {
			tol = tensor.DefaultTolerance(req.N)
		}
		ok := true
		if verr := tensor.Verify(&A, &B, &C, tol); verr != nil {
			ok = false
			job.VerifyInfo = verr.Error()
			s.log.Warn("verification mismatch", "n", req.N, "tile", req.Tile, "error", verr)
		}
		job.Verified = &ok
	}
	return job, nil
}
