package product

import "errors"

var (
	// -- Database & Operation Failures --
	ErrFailedGetProducts = errors.New("failed to get products")
	ErrFailedScanProduct = errors.New("failed to scan product row")
)
