/*
Package cash keeps the balances of all accounts and allows to move value
between them.

A single, unnamed currency is used. Amounts are whole numbers.
*/
package cash
