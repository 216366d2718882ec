/*
Package wheel implements the roulette simulation.

A spin is accepted only when a slot is selected and 0 < bet <= balance; those
checks run before the domain parameters are validated. The remote generator
declares the winning slot, and a cancelable 50ms ticker then walks the
pointer through Revolutions full turns plus the offset to the winning slot.
The last tick forces the pointer onto the winning slot and settles the bet:
a match credits bet*36, anything else debits the bet.

The balance lives only in memory for the lifetime of a Simulation.
*/
package wheel
