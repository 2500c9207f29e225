// Package lot models produce lots, the inventory unit allocated to contracts,
// and the harvest declarations farmers file before a lot exists.
package lot
