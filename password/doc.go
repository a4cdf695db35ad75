// Package password provides one-way credential hashing and verification on
// top of bcrypt.
//
// The cost factor is configurable so tests can run at the bcrypt minimum
// while production deployments use 12 or higher. Verification distinguishes
// a wrong password from a corrupt stored hash: the former is a routine
// authentication failure, the latter means the credential record itself is
// damaged and must surface to operators.
package password
