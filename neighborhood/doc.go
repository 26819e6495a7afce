// Package neighborhood converts a dense contact map between the components of
// a CTBN into the padded sparse form consumed by the rate model and the
// variational solver.
//
// Padding rounds the component count K and the slot count M up to powers of
// two, so shapes of batched problems coincide. Padding components carry
// SeqMask false and padding slots carry NbrMask false; neither contributes to
// any rate, derivative or bound. Contacts are symmetric: if j lists i then i
// lists j, and SlotOf resolves the position of i inside j's list.
//
// ChainContacts and RandomContacts generate common contact maps for tests and
// examples.
package neighborhood
