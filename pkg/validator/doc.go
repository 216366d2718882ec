/*
Package validator checks the generator parameters before any request is issued.

Rules run in a fixed order and the first failure wins:

 1. Any of p, q or seed is empty after trimming: ErrMissingField.
 2. p, q or seed does not parse to a finite number: ErrNotANumber.
 3. p or q is not a prime integer: ErrNotPrime.

Validation is pure; it never touches the network or the settings store.
*/
package validator
