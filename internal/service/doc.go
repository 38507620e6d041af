// Package service holds authentication concerns for the HTTP transport
// layer: service-to-service JWT issuance/validation and shared API-key
// verification. Optimization logic itself lives in internal/core.
package service

