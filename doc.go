// Package pcstore implements the core of a rack-aware, erasure-coded
// block-storage experiment platform built around a two-dimensional product
// code PC(k1, m1, k2, m2). Data occupies a k2 x k1 grid of fixed-size
// blocks; each code-row carries m1 Reed-Solomon row-parity blocks, each
// code-column carries m2 column-parity blocks, and an m2 x m1 cross-parity
// block completes the (k2+m2) x (k1+m1) code grid.
//
// Subpackages split out the pieces that are independently reusable:
// gf256 and coding hold the field arithmetic and RS generator matrices,
// placement maps code-grid block ids onto (rack, server) pairs, blockstore
// is the memcached-backed block client, repair plans and executes
// minimum-cross-rack-traffic recovery of a failed block set, integrity
// computes optional post-repair Merkle roots, and bench/cmd/pcbench drive
// end-to-end experiments.
package pcstore
