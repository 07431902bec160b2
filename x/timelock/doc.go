/*
Package timelock implements the confirmation, time lock and execution
workflow of the vault transactions.

A transaction proposed to the registry collects confirmations from the
owners. The moment the number of confirmations first reaches the owner set
threshold, the confirmation time of that transaction is latched. From that
moment the transaction cannot be revoked anymore. Once the wallet wide delay
has elapsed since the latch, anyone can execute the transaction.

The delay is read each time an unlock check is performed. Changing it
affects all latched transactions that were not executed yet. The delay can
only be changed by the vault itself, as the effect of executing a
transaction that was sent to SystemAddress with a ChangeDelayMsg payload.

Execution marks the transaction as executed before the action runs, so that
an action that calls back into the vault can never execute the same
transaction twice. A failing action does not abort the execution request: the
transaction is marked as not executed again and can be retried.
*/
package timelock
