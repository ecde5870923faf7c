/*
Package fixrec implements zero-copy views over fixed-shape binary records and
keyed repositories of such records.

We implement:

1. Schemas, static descriptions of a record: ordered fields with a type and
attributes (key, indexed, unique, sequence-generated), compiled once into a
byte-offset layout.

2. Records, rebindable flyweight cursors that read and write typed fields at
fixed offsets inside an externally supplied buffer they do not own.

3. Repositories, contiguous fixed-capacity stores of records of one schema,
indexed by a unique integer key, with secondary value indexes, uniqueness
constraints and whole-store snapshot/rollback.

# Technical Details

**Binary layout.**
Every record starts with an 8-byte header: typeId (int16 LE), groupId
(int16 LE), bodyLength (int32 LE, equal to the record stride). Fields follow
in declaration order with no padding, little-endian for multi-byte numerics,
ASCII space-padded for fixed strings, 0x00/0x01 for booleans.

**Slot padding.**
A repository lays records out every Stride+SlotPadding bytes. The extra byte
is carried over from the originating wire format; see SlotPadding.

**Index maintenance.**
A repository owns its cursor Record and receives a callback after every
successful write to an indexed field, so forward (value to offsets), reverse
(offset to last value) and unique-value structures always reflect buffer
state. Values are keyed by an order-preserving big-endian encoding.

**Error policy.**
Data-dependent conditions (capacity exhausted, duplicate key, unknown key,
unique-constraint violation, header mismatch) report through nil/false
returns. Contract violations by the caller (writing through an immutable
buffer, writing a locked key field, oversized fixed strings, wrong-kind
field access, iterating past exhaustion) panic.

**Concurrency.**
Single logical writer, no internal locking. The shared cursor and the shared
iterator mean at most one in-flight binding is safe without external
coordination. Buffers may be memory-mapped (see MapFile) to share record
bytes with other processes.
*/
package fixrec
